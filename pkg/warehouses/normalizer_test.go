package warehouses_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellsight/stocktally/pkg/warehouses"
)

func TestNormalize(t *testing.T) {
	norm := warehouses.NewNormalizer(warehouses.Default())

	tests := []struct {
		name  string
		label string
		want  string
	}{
		// Exact variant lookups.
		{"exact cyrillic", "Тула", "Tula"},
		{"exact variant with branch suffix", "Тула-1", "Tula"},
		{"exact latin lowercase", "tula", "Tula"},
		{"exact uppercase", "ТУЛА", "Tula"},
		{"surrounding whitespace", "  Тверь\t", "Tver"},
		{"variant with space and digit", "Чехов 1", "Chekhov"},
		{"canonical name is its own variant", "Saint Petersburg", "Saint Petersburg"},
		{"parenthesized variant", "Краснодар (Адыгейск)", "Krasnodar"},

		// Marketplace keyword scan.
		{"keyword uppercase cyrillic", "МАРКЕТПЛЕЙС", "Marketplace"},
		{"seller warehouse phrase", "Seller Warehouse", "Marketplace"},
		{"dotted fbs abbreviation", "F.B.S.", "Marketplace"},
		{"seller stock with branch number", "Склад продавца №2", "Marketplace"},

		// Cleanup pass rescuing near-variants.
		{"numero sign branch", "Тула №1", "Tula"},
		{"abbreviation with dash digit", "ЕКБ-3", "Yekaterinburg"},
		{"parenthesized qualifier dropped", "Казань (старый)", "Kazan"},
		{"filler word dropped", "склад Самара", "Samara"},

		// Word containment.
		{"extra words around variant", "СПб Шушары доставка", "Saint Petersburg"},
		{"containment with trailing number", "Хабаровск экспресс 7", "Khabarovsk"},

		// Passthrough of unknown labels.
		{"unknown label preserved", "Новая точка выдачи", "Новая точка выдачи"},
		{"unknown label punctuation cleaned", "Пункт №5", "Пункт 5"},
		{"punctuation-only label trimmed", " --- ", "---"},
		{"empty label", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, norm.Normalize(tt.label))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		for _, tt := range tests {
			once := norm.Normalize(tt.label)
			assert.Equal(t, once, norm.Normalize(once),
				"Normalize(Normalize(%q)) should equal Normalize(%q)", tt.label, tt.label)
		}
	})
}

func TestNormalizeDeterministic(t *testing.T) {
	norm := warehouses.NewNormalizer(warehouses.Default())

	labels := []string{"Тула", "МАРКЕТПЛЕЙС", "неизвестный пункт", "ЕКБ-3", "в пути"}
	want := make([]string, len(labels))
	for i, l := range labels {
		want[i] = norm.Normalize(l)
	}

	// Same normalizer, repeated calls.
	for n := 0; n < 50; n++ {
		for i, l := range labels {
			require.Equal(t, want[i], norm.Normalize(l))
		}
	}

	// Fresh normalizer from the same dictionary.
	fresh := warehouses.NewNormalizer(warehouses.Default())
	for i, l := range labels {
		require.Equal(t, want[i], fresh.Normalize(l))
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	norm := warehouses.NewNormalizer(warehouses.Default())

	labels := map[string]string{
		"Тула-1":        "Tula",
		"маркетплейс":   "Marketplace",
		"Чехов 1":       "Chekhov",
		"Новый пункт 9": norm.Normalize("Новый пункт 9"),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 400)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for label, want := range labels {
				if got := norm.Normalize(label); got != want {
					errs <- fmt.Errorf("Normalize(%q) = %q, want %q", label, got, want)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNormalizeCustomDictionary(t *testing.T) {
	dict, err := warehouses.Parse([]byte(`
marketplace:
  name: SellerHub
  keywords: [sellerhub]
warehouses:
  - name: Depot North
    variants: [north-1, север]
`))
	require.NoError(t, err)

	norm := warehouses.NewNormalizer(dict)
	assert.Equal(t, "Depot North", norm.Normalize("СЕВЕР"))
	assert.Equal(t, "Depot North", norm.Normalize("north-1"))
	assert.Equal(t, "SellerHub", norm.Normalize("Seller.Hub 22"))
	assert.Equal(t, "somewhere else", norm.Normalize("somewhere else"))
}
