package graph

import "testing"

func TestHasProviderCycleEmptyGraph(t *testing.T) {
	g := New()
	if g.HasProviderCycle() {
		t.Fatal("an empty graph has no cycle")
	}
}

func TestHasProviderCycleSingleAS(t *testing.T) {
	g := New()
	g.AddNode(100)
	if g.HasProviderCycle() {
		t.Fatal("a single isolated AS has no cycle")
	}
}

func TestHasProviderCycleDAG(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 300)
	g.AddProvider(100, 300)
	if g.HasProviderCycle() {
		t.Fatal("a provider DAG with two paths from 100 to 300 is not a cycle")
	}
}

func TestHasProviderCycleSelfLoop(t *testing.T) {
	g := New()
	g.AddProvider(100, 100)
	if !g.HasProviderCycle() {
		t.Fatal("an AS that is its own provider is a cycle of length 1")
	}
}

func TestHasProviderCycleTwoNode(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 100)
	if !g.HasProviderCycle() {
		t.Fatal("a two-AS mutual provider/customer relationship is a cycle")
	}
}

func TestHasProviderCycleDisconnectedComponents(t *testing.T) {
	g := New()
	g.AddProvider(100, 200) // acyclic component
	g.AddProvider(300, 400)
	g.AddProvider(400, 300) // cyclic component, discovered only by restarting DFS
	if !g.HasProviderCycle() {
		t.Fatal("expected the cycle in the second, disconnected component to be found")
	}
}
