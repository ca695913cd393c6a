package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Section is a business domain whose transaction feed the aggregator builds.
type Section string

const (
	SectionProjects   Section = "projects"
	SectionProperties Section = "properties"
	SectionFinancial  Section = "financial"
	SectionPeople     Section = "people"
	SectionEquipment  Section = "equipment"
	SectionSafety     Section = "safety"
	SectionDocuments  Section = "documents"
	SectionCRM        Section = "crm"
)

// Sections lists every valid section in display order.
var Sections = []Section{
	SectionProjects, SectionProperties, SectionFinancial, SectionPeople,
	SectionEquipment, SectionSafety, SectionDocuments, SectionCRM,
}

// ParseSection validates a section name from the request path.
func ParseSection(s string) (Section, error) {
	for _, known := range Sections {
		if Section(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// SectionTransaction is one row of a unified section feed: either a source
// business event (with its journal entry attached when one exists) or a
// standalone posted journal entry line.
type SectionTransaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Reference   *string         `json:"reference,omitempty"`
	Source      string          `json:"source"`
	SourceHref  string          `json:"sourceHref"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	JENumber    *string         `json:"jeNumber,omitempty"`
	JEID        *string         `json:"jeID,omitempty"`
	// JEExpected distinguishes "should have an entry but doesn't" from
	// "this event type never generates one". Nil once an entry exists.
	JEExpected *bool `json:"jeExpected,omitempty"`
}
