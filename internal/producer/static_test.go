package producer

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStaticProducer_Deterministic(t *testing.T) {
	p := NewStaticProducer()
	ctx := context.Background()

	req := Request{Address: "東京都杉並区高円寺南"}
	first, err := p.Produce(ctx, req)
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}
	second, err := p.Produce(ctx, req)
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same address produced different analyses (-first +second):\n%s", diff)
	}

	other, err := p.Produce(ctx, Request{Address: "大阪市阿倍野区"})
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}
	if cmp.Equal(first.LifestyleScore, other.LifestyleScore) {
		t.Error("different addresses should not share identical scores")
	}
}

func TestStaticProducer_ScoreRange(t *testing.T) {
	p := NewStaticProducer()

	analysis, err := p.Produce(context.Background(), Request{Address: "横浜市中区"})
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}

	if len(analysis.LifestyleScore) != 6 {
		t.Errorf("expected 6 category scores, got %d", len(analysis.LifestyleScore))
	}
	for cat, score := range analysis.LifestyleScore {
		if score < 0 || score > 100 {
			t.Errorf("score out of range for %s: %v", cat, score)
		}
	}

	if !analysis.Capabilities.UsedGovernmentStats {
		t.Error("static producer should declare government statistics usage")
	}
}

func TestStaticProducer_ContextCancelled(t *testing.T) {
	p := NewStaticProducer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Produce(ctx, Request{Address: "名古屋市中村区"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
