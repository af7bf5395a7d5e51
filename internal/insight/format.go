package insight

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

func printer() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

// FormatNumber renders v with two decimals in Brazilian notation: 1.234,56.
func FormatNumber(v float64) string {
	return printer().Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatBRL renders v as Brazilian reais: R$ 1.234,56.
func FormatBRL(v float64) string {
	return "R$ " + FormatNumber(v)
}

// CoverageMessage is the verdict sentence shown under the metric cards.
func CoverageMessage(c domain.Coverage) string {
	pct := "n/d"
	if c.Percent != nil {
		pct = FormatNumber(*c.Percent) + "%"
	}
	if c.Covered {
		return printer().Sprintf("O lucro líquido cobriu o custo total da promoção (%s).", pct)
	}
	return printer().Sprintf("O lucro líquido não cobriu o custo total. Faltaram %s (%s).", FormatBRL(c.Deficit), pct)
}
