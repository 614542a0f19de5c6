// Package ner labels Amharic token streams with product, price, and
// location tags using gazetteer and pattern rules. The label set follows
// the CoNLL BIO scheme used for the fine-tuning dataset.
package ner

import (
	"regexp"
	"strconv"
	"strings"
)

// Label is a BIO tag attached to one token.
type Label string

const (
	LabelOutside  Label = "O"
	LabelPriceB   Label = "B-PRICE"
	LabelPriceI   Label = "I-PRICE"
	LabelProductB Label = "B-Product"
	LabelProductI Label = "I-Product"
	LabelLocB     Label = "B-LOC"
	LabelLocI     Label = "I-LOC"
)

// LabeledToken pairs a token with its BIO label.
type LabeledToken struct {
	Token string
	Label Label
}

// birr is the Amharic currency word; priceWord introduces a price phrase.
const (
	birr      = "ብር"
	priceWord = "ዋጋ"
)

var digits = regexp.MustCompile(`^\d+$`)
var digitsBirr = regexp.MustCompile(`^\d+ብር$`)

// Default gazetteers. Callers extend them through NewLabeler.
var (
	defaultLocations = []string{
		"አዲስ", "ቦሌ", "ቡልጋሪ", "በረራ",
		"አበባ", "መገናኛ", "ፒያሳ", "መርካቶ", "ገርጂ",
	}
	defaultProductKeywords = []string{"ምርት", "ምርቶች"}
)

// Labeler assigns BIO labels to tokenized Amharic messages.
type Labeler struct {
	locations       map[string]struct{}
	productKeywords map[string]struct{}
}

// NewLabeler builds a Labeler from the default gazetteers plus any extra
// location and product entries from configuration.
func NewLabeler(extraLocations, extraProducts []string) *Labeler {
	l := &Labeler{
		locations:       make(map[string]struct{}),
		productKeywords: make(map[string]struct{}),
	}
	for _, loc := range defaultLocations {
		l.locations[loc] = struct{}{}
	}
	for _, loc := range extraLocations {
		if loc = strings.TrimSpace(loc); loc != "" {
			l.locations[loc] = struct{}{}
		}
	}
	for _, p := range defaultProductKeywords {
		l.productKeywords[p] = struct{}{}
	}
	for _, p := range extraProducts {
		if p = strings.TrimSpace(p); p != "" {
			l.productKeywords[p] = struct{}{}
		}
	}
	return l
}

// Label tags each token. Price phrases cover the ዋጋ keyword, the numeric
// amount, and the ብር currency word; consecutive gazetteer hits continue
// the span with I- tags.
func (l *Labeler) Label(tokens []string) []LabeledToken {
	out := make([]LabeledToken, len(tokens))
	inPrice := false
	for i, tok := range tokens {
		label := LabelOutside

		switch {
		case tok == priceWord:
			label = LabelPriceB
			inPrice = true
		case digitsBirr.MatchString(tok):
			if inPrice {
				label = LabelPriceI
			} else {
				label = LabelPriceB
			}
			inPrice = false
		case digits.MatchString(tok) && (inPrice || l.nextIsBirr(tokens, i)):
			if inPrice {
				label = LabelPriceI
			} else {
				label = LabelPriceB
				inPrice = true
			}
		case tok == birr && inPrice:
			label = LabelPriceI
			inPrice = false
		case l.isLocation(tok):
			if i > 0 && spanType(out[i-1].Label) == "LOC" {
				label = LabelLocI
			} else {
				label = LabelLocB
			}
			inPrice = false
		case l.isProduct(tok):
			if i > 0 && spanType(out[i-1].Label) == "Product" {
				label = LabelProductI
			} else {
				label = LabelProductB
			}
			inPrice = false
		default:
			inPrice = false
		}

		out[i] = LabeledToken{Token: tok, Label: label}
	}
	return out
}

func (l *Labeler) nextIsBirr(tokens []string, i int) bool {
	return i+1 < len(tokens) && tokens[i+1] == birr
}

func (l *Labeler) isLocation(tok string) bool {
	_, ok := l.locations[tok]
	return ok
}

func (l *Labeler) isProduct(tok string) bool {
	_, ok := l.productKeywords[tok]
	return ok
}

// spanType returns the entity part of a BIO label, "" for O.
func spanType(lb Label) string {
	s := string(lb)
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		return s[idx+1:]
	}
	return ""
}

// Span is a contiguous labeled region of the token stream.
type Span struct {
	Type   string // PRICE, Product, LOC
	Start  int    // first token index
	End    int    // one past the last token index
	Tokens []string
}

// Spans groups BIO labels into entity spans.
func Spans(labeled []LabeledToken) []Span {
	var spans []Span
	var cur *Span
	for i, lt := range labeled {
		typ := spanType(lt.Label)
		begin := strings.HasPrefix(string(lt.Label), "B-")
		switch {
		case typ == "":
			cur = nil
		case begin || cur == nil || cur.Type != typ:
			spans = append(spans, Span{Type: typ, Start: i, End: i + 1, Tokens: []string{lt.Token}})
			cur = &spans[len(spans)-1]
		default:
			cur.End = i + 1
			cur.Tokens = append(cur.Tokens, lt.Token)
		}
	}
	return spans
}

// PriceAmount extracts the numeric ETB amount from a PRICE span. The second
// return is false when the span carries no digits.
func PriceAmount(span Span) (float64, bool) {
	for _, tok := range span.Tokens {
		tok = strings.TrimSuffix(tok, birr)
		if digits.MatchString(tok) {
			v, err := strconv.ParseFloat(tok, 64)
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
