package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var defaultPrinter = message.NewPrinter(language.English)

// Printer returns a number printer for the given locale tag, falling back to
// English when the tag cannot be parsed.
func Printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		return defaultPrinter
	}
	return message.NewPrinter(tag)
}

func printerOr(p *message.Printer) *message.Printer {
	if p == nil {
		return defaultPrinter
	}
	return p
}

// percent formats a [0,1] fraction as a percentage with one decimal.
func percent(p *message.Printer, v float64) string {
	return p.Sprintf("%.1f%%", v*100)
}

func count(p *message.Printer, n int) string {
	return p.Sprintf("%d", n)
}

func feet(p *message.Printer, v float64) string {
	return p.Sprintf("%.1f ft", v)
}

func periodLabel(period int) string {
	switch {
	case period <= 4:
		return defaultPrinter.Sprintf("Q%d", period)
	case period == 5:
		return "OT"
	default:
		return defaultPrinter.Sprintf("OT%d", period-4)
	}
}
