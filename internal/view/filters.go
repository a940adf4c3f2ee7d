package view

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"shotchart/internal/domain"
)

// Form field names of the filter controls.
const (
	FieldSeason   = "season"
	FieldShotMade = "shot_made"
	FieldPeriod   = "period"
	FieldShotZone = "shot_zone"
)

// FilterErrorID is the element id rejected filter messages are swapped into.
const FilterErrorID = "filter-error"

// periodOptions are the periods offered in the picker. Later overtimes are
// accepted by NextFilter but not listed.
var periodOptions = []int{1, 2, 3, 4, 5}

// NextFilter returns the filter that results from submitting form against
// prev. Fields missing from the form keep their previous value; an empty value
// or "all"/"any" clears the constraint. The returned record is always
// complete.
func NextFilter(prev domain.Filter, form url.Values) (domain.Filter, error) {
	next := prev

	if _, ok := form[FieldSeason]; ok {
		next.Season = strings.TrimSpace(form.Get(FieldSeason))
	}

	if _, ok := form[FieldShotMade]; ok {
		switch v := strings.ToLower(strings.TrimSpace(form.Get(FieldShotMade))); v {
		case "", "any", "all":
			next.ShotMade = domain.None[bool]()
		case "made", "true", "1":
			next.ShotMade = domain.Some(true)
		case "missed", "false", "0":
			next.ShotMade = domain.Some(false)
		default:
			return prev, &domain.ValidationError{Code: domain.CodeInvalidShotMade, Message: "shot_made must be made, missed or any"}
		}
	}

	if _, ok := form[FieldPeriod]; ok {
		v := strings.ToLower(strings.TrimSpace(form.Get(FieldPeriod)))
		switch v {
		case "", "all":
			next.Period = domain.None[int]()
		case "ot":
			next.Period = domain.Some(5)
		default:
			n, err := strconv.Atoi(v)
			if err != nil {
				return prev, &domain.ValidationError{Code: domain.CodeInvalidPeriod, Message: "Period must be a number"}
			}
			next.Period = domain.Some(n)
		}
	}

	if _, ok := form[FieldShotZone]; ok {
		v := strings.TrimSpace(form.Get(FieldShotZone))
		if v == "" || strings.EqualFold(v, "all") {
			next.ShotZone = domain.None[domain.ShotZone]()
		} else {
			zone, err := domain.ParseShotZone(v)
			if err != nil {
				return prev, err
			}
			next.ShotZone = domain.Some(zone)
		}
	}

	if err := next.Validate(); err != nil {
		return prev, err
	}
	return next, nil
}

// FilterControls renders the filter form for f. Each change posts the whole
// form so the server can build the next complete record.
func FilterControls(f domain.Filter, seasons []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<form class="panel filters" method="post" action="/filters"`)
		h.raw(` hx-post="/filters" hx-target="#`, MainID, `" hx-swap="outerHTML" hx-trigger="change">`)
		h.raw(`<h3>Filters</h3>`)

		h.raw(`<label>Season <select name="`, FieldSeason, `">`)
		listed := false
		for _, s := range seasons {
			listed = listed || s == f.Season
			option(h, s, s, s == f.Season)
		}
		if !listed && f.Season != "" {
			option(h, f.Season, f.Season, true)
		}
		h.raw(`</select></label>`)

		made, madeSet := f.ShotMade.Get()
		h.raw(`<label>Result <select name="`, FieldShotMade, `">`)
		option(h, "any", "All shots", !madeSet)
		option(h, "made", "Made", madeSet && made)
		option(h, "missed", "Missed", madeSet && !made)
		h.raw(`</select></label>`)

		period, periodSet := f.Period.Get()
		h.raw(`<label>Period <select name="`, FieldPeriod, `">`)
		option(h, "all", "All periods", !periodSet)
		listed = false
		for _, p := range periodOptions {
			listed = listed || (periodSet && p == period)
			option(h, strconv.Itoa(p), periodLabel(p), periodSet && p == period)
		}
		if periodSet && !listed {
			option(h, strconv.Itoa(period), periodLabel(period), true)
		}
		h.raw(`</select></label>`)

		zone, zoneSet := f.ShotZone.Get()
		h.raw(`<label>Zone <select name="`, FieldShotZone, `">`)
		option(h, "all", "All zones", !zoneSet)
		for _, z := range domain.ShotZones() {
			option(h, z.Slug(), string(z), zoneSet && z == zone)
		}
		h.raw(`</select></label>`)

		h.raw(`<p id="`, FilterErrorID, `" class="form-error" role="alert"></p>`)
		h.raw(`<noscript><button type="submit">Apply</button></noscript></form>`)
		return h.err
	})
}

// FilterError is the inline message for a rejected filter submission.
func FilterError(msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.text(msg)
		return h.err
	})
}

func option(h *htmlWriter, value, label string, isSelected bool) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`, selected(isSelected), `>`)
	h.text(label)
	h.raw(`</option>`)
}
