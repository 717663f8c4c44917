package graph

import "testing"

func TestFlattenByProvidersLinearChain(t *testing.T) {
	g := New()
	g.AddProvider(100, 200) // 100 provider of 200
	g.AddProvider(200, 300) // 200 provider of 300

	buckets, err := g.FlattenByProviders()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 rank buckets (0,1,2), got %d", len(buckets))
	}
	if n, _ := g.Get(300); n.Rank != 0 {
		t.Errorf("300 has no customers, want rank 0, got %d", n.Rank)
	}
	if n, _ := g.Get(200); n.Rank != 1 {
		t.Errorf("200's only customer is 300 (rank 0), want rank 1, got %d", n.Rank)
	}
	if n, _ := g.Get(100); n.Rank != 2 {
		t.Errorf("100's only customer is 200 (rank 1), want rank 2, got %d", n.Rank)
	}
}

func TestFlattenByProvidersUnknownCustomerIsRankZero(t *testing.T) {
	g := New()
	n := g.AddNode(100)
	// Reference an ASN as a customer without ever creating it as a node.
	n.Customers = append(n.Customers, 999)

	buckets, err := g.FlattenByProviders()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := g.Get(999); ok {
		t.Fatal("an unknown customer ASN must not be materialized as a node")
	}
	if n.Rank != 1 {
		t.Fatalf("100's only customer (999, unknown -> rank 0) should give 100 rank 1, got %d", n.Rank)
	}
	for r, bucket := range buckets {
		for _, asn := range bucket {
			if asn == 999 {
				t.Fatalf("unknown ASN 999 must be absent from the buckets, found at rank %d", r)
			}
		}
	}
}

func TestFlattenByProvidersFailsOnCycle(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 100)

	if _, err := g.FlattenByProviders(); err != ErrProviderCycle {
		t.Fatalf("expected ErrProviderCycle, got %v", err)
	}
}
