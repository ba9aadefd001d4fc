package consistency

import (
	"testing"

	"github.com/knakagawa/citylens/internal/model"
)

func TestKeywordClassifier_Sentiment(t *testing.T) {
	classifier := NewKeywordClassifier(model.DefaultConfig())

	cases := []struct {
		text string
		want model.Sentiment
	}{
		{"教育施設が充実していて便利です", model.SentimentPositive},
		{"医療機関が不足しており不安があります", model.SentimentNegative},
		{"駅前には店舗があります", model.SentimentNeutral},
		// Tie: one positive, one negative keyword
		{"買い物は便利ですが治安に懸念があります", model.SentimentNeutral},
	}

	for _, c := range cases {
		if got := classifier.Classify(c.text).Sentiment; got != c.want {
			t.Errorf("Classify(%q).Sentiment = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestKeywordClassifier_Category(t *testing.T) {
	classifier := NewKeywordClassifier(model.DefaultConfig())

	cases := []struct {
		text string
		want string
	}{
		{"最寄り駅まで徒歩5分でアクセス良好", "transport"},
		{"スーパーが近くにあります", "shopping"},
		{"総合病院が徒歩圏内です", "medical"},
		{"学区の評判が良い", "education"},
		{"公園と緑が多い", "environment"},
		{"犯罪発生率が低い", "safety"},
		{"家賃相場が手頃です", CategoryOther},
	}

	for _, c := range cases {
		if got := classifier.Classify(c.text).Category; got != c.want {
			t.Errorf("Classify(%q).Category = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		text  string
		score float64
		ok    bool
	}{
		{"教育80点で充実しています", 80, true},
		{"交通74.5点です", 74.5, true},
		{"環境 68 点", 68, true},
		{"スコアの記載なし", 0, false},
	}

	for _, c := range cases {
		score, ok := ExtractScore(c.text)
		if ok != c.ok || score != c.score {
			t.Errorf("ExtractScore(%q) = (%v, %v), want (%v, %v)", c.text, score, ok, c.score, c.ok)
		}
	}
}
