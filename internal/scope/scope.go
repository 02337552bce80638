// Package scope models the capability grants attached to an account.
// Grants are persisted as a space-delimited string; in code they are a
// typed set so authorization is a membership test, never a substring match.
package scope

import "strings"

// Capability is a single named permission.
type Capability string

const (
	AddCurrency    Capability = "add-currency"
	ViewCurrencies Capability = "view-currencies"
	GetOneCurrency Capability = "get-one-currency"
	UpdateCurrency Capability = "update-currency"
	AddRate        Capability = "add-rate"
	ViewRates      Capability = "view-rates"
	GetOneRate     Capability = "get-one-rate"
	UpdateRate     Capability = "update-rate"
	AddBureau      Capability = "add-bureau"
	ViewBureaus    Capability = "view-bureaus"
	GetOneBureau   Capability = "get-one-bureau"
	UpdateBureau   Capability = "update-bureau"
	AddAdmin       Capability = "add-admin"
	ViewAdmins     Capability = "view-admins"
	EditAdmin      Capability = "edit-admin"
	ViewReports    Capability = "view-reports"
)

// All lists every recognized capability in the canonical enumeration order.
// Assembly walks this slice, so the order here fixes the order of the
// persisted scope string.
var All = []Capability{
	AddCurrency,
	ViewCurrencies,
	GetOneCurrency,
	UpdateCurrency,
	AddRate,
	ViewRates,
	GetOneRate,
	UpdateRate,
	AddBureau,
	ViewBureaus,
	GetOneBureau,
	UpdateBureau,
	AddAdmin,
	ViewAdmins,
	EditAdmin,
	ViewReports,
}

var recognized = func() map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(All))
	for _, c := range All {
		m[c] = struct{}{}
	}
	return m
}()

// Set is an ordered capability set. The zero value is empty and usable.
type Set struct {
	caps []Capability
	seen map[Capability]struct{}
}

// NewSet builds a set from the given capabilities, dropping duplicates and
// unrecognized values while preserving first-insertion order.
func NewSet(caps ...Capability) Set {
	s := Set{seen: make(map[Capability]struct{}, len(caps))}
	for _, c := range caps {
		s.add(c)
	}
	return s
}

// Parse splits a stored space-delimited scope string into a Set. Tokens not
// matching a recognized capability are kept out of the set; a stored scope
// round-trips as long as it only contains recognized tokens.
func Parse(stored string) Set {
	fields := strings.Fields(stored)
	caps := make([]Capability, 0, len(fields))
	for _, f := range fields {
		caps = append(caps, Capability(f))
	}
	return NewSet(caps...)
}

// Assemble builds a Set from request capability fields: each recognized
// field whose submitted value is non-empty (after trimming) contributes its
// capability, in the fixed enumeration order. This mirrors how the scope
// string is put together at account creation and edit time.
func Assemble(fields map[Capability]string) Set {
	s := Set{seen: make(map[Capability]struct{}, len(fields))}
	for _, c := range All {
		if v, ok := fields[c]; ok && strings.TrimSpace(v) != "" {
			s.add(c)
		}
	}
	return s
}

func (s *Set) add(c Capability) {
	if _, ok := recognized[c]; !ok {
		return
	}
	if s.seen == nil {
		s.seen = make(map[Capability]struct{})
	}
	if _, dup := s.seen[c]; dup {
		return
	}
	s.seen[c] = struct{}{}
	s.caps = append(s.caps, c)
}

// Has reports whether the set contains the exact capability.
func (s Set) Has(c Capability) bool {
	_, ok := s.seen[c]
	return ok
}

// Len returns the number of capabilities in the set.
func (s Set) Len() int { return len(s.caps) }

// List returns the capabilities in insertion order.
func (s Set) List() []Capability {
	out := make([]Capability, len(s.caps))
	copy(out, s.caps)
	return out
}

// Strings returns the capabilities as plain strings, for token claims.
func (s Set) Strings() []string {
	out := make([]string, len(s.caps))
	for i, c := range s.caps {
		out[i] = string(c)
	}
	return out
}

// String renders the set as the persisted space-delimited form.
func (s Set) String() string {
	return strings.Join(s.Strings(), " ")
}

// WorkerDefault is the grant given to the first worker of a new bureau.
func WorkerDefault() Set {
	return NewSet(
		AddCurrency, ViewCurrencies, GetOneCurrency, UpdateCurrency,
		AddRate, ViewRates, GetOneRate, UpdateRate,
		AddBureau, ViewBureaus, GetOneBureau, UpdateBureau,
	)
}
