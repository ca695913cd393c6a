package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/dto"
)

// sectionsService builds the unified per-section transaction feeds. Every
// section follows the same two-phase shape: first emit source business events
// with their journal entries attached (collecting the covered entry IDs),
// then emit posted journal entry lines no source row claimed.
type sectionsService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	eventRepo   portsrepo.EventRepositoryFacade
	resolver    portssvc.AccountResolverSvcFacade
}

// NewSectionsService creates a new section transaction aggregator.
func NewSectionsService(journalRepo portsrepo.JournalRepositoryFacade, eventRepo portsrepo.EventRepositoryFacade, resolver portssvc.AccountResolverSvcFacade) portssvc.SectionSvcFacade {
	return &sectionsService{journalRepo: journalRepo, eventRepo: eventRepo, resolver: resolver}
}

var _ portssvc.SectionSvcFacade = (*sectionsService)(nil)

func (s *sectionsService) GetSectionTransactions(ctx context.Context, companyID string, section domain.Section) (*dto.SectionTransactionSummary, error) {
	switch section {
	case domain.SectionProjects:
		return s.projectTransactions(ctx, companyID)
	case domain.SectionProperties:
		return s.propertyTransactions(ctx, companyID)
	case domain.SectionFinancial:
		return s.financialTransactions(ctx, companyID)
	case domain.SectionPeople:
		return s.peopleTransactions(ctx, companyID)
	case domain.SectionEquipment:
		return s.equipmentTransactions(ctx, companyID)
	case domain.SectionSafety:
		return s.expenseAccountTransactions(ctx, companyID, domain.SectionSafety, domain.RoleSafetyExpense)
	case domain.SectionDocuments:
		return s.expenseAccountTransactions(ctx, companyID, domain.SectionDocuments, domain.RoleOfficeDocsExpense)
	case domain.SectionCRM:
		return s.crmTransactions(ctx, companyID)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown section %q", section))
	}
}

// feedBuilder accumulates section rows and tracks which journal entries a
// source row already accounts for. addSource calls must all happen before
// addStandaloneLines so covered entries across every source kind are known
// before the standalone pass.
type feedBuilder struct {
	rows    []domain.SectionTransaction
	covered map[string]struct{}
}

func newFeedBuilder() *feedBuilder {
	return &feedBuilder{covered: make(map[string]struct{})}
}

// addSource appends a business-event row. When the entry exists, its number
// and ID are attached and the entry is marked covered; otherwise jeExpected
// records whether this event should eventually get one.
func (b *feedBuilder) addSource(tx domain.SectionTransaction, entry *domain.JournalEntry, jeExpected bool) {
	if entry != nil {
		num, id := entry.EntryNumber, entry.EntryID
		tx.JENumber = &num
		tx.JEID = &id
		b.covered[entry.EntryID] = struct{}{}
	} else {
		expected := jeExpected
		tx.JEExpected = &expected
	}
	b.rows = append(b.rows, tx)
}

// addStandaloneLines appends posted lines whose entry no source row covered
// and that the keep predicate admits.
func (b *feedBuilder) addStandaloneLines(lines []domain.PostedLine, keep func(domain.PostedLine) bool) {
	for _, line := range lines {
		if _, ok := b.covered[line.EntryID]; ok {
			continue
		}
		if keep != nil && !keep(line) {
			continue
		}
		b.rows = append(b.rows, standaloneLineRow(line))
	}
}

// summary sorts newest-first and totals both columns.
func (b *feedBuilder) summary(section domain.Section) *dto.SectionTransactionSummary {
	sort.SliceStable(b.rows, func(i, j int) bool {
		return b.rows[i].Date.After(b.rows[j].Date)
	})
	totalDebits, totalCredits := decimal.Zero, decimal.Zero
	for _, tx := range b.rows {
		totalDebits = totalDebits.Add(tx.Debit)
		totalCredits = totalCredits.Add(tx.Credit)
	}
	if b.rows == nil {
		b.rows = []domain.SectionTransaction{}
	}
	return &dto.SectionTransactionSummary{
		Section:           string(section),
		Transactions:      b.rows,
		TotalTransactions: len(b.rows),
		TotalDebits:       totalDebits,
		TotalCredits:      totalCredits,
		NetAmount:         totalDebits.Sub(totalCredits),
	}
}

// standaloneLineRow renders one posted journal entry line. The source label
// comes from the entry's reference kind; entries without a reference are
// manual postings.
func standaloneLineRow(line domain.PostedLine) domain.SectionTransaction {
	source, href := "Journal Entry", ""
	var ref *string
	if line.Reference != nil {
		if kind, eventID, _, ok := domain.ParseReference(*line.Reference); ok {
			if label, known := kind.Source(); known {
				source = label.Label
				href = label.HrefPrefix + eventID
			}
		}
		ref = line.Reference
	}
	desc := line.Description
	if desc == "" {
		desc = line.EntryDesc
	}
	num, id := line.EntryNumber, line.EntryID
	return domain.SectionTransaction{
		ID:          line.LineID,
		Date:        line.EntryDate,
		Description: desc,
		Reference:   ref,
		Source:      source,
		SourceHref:  href,
		Debit:       line.Debit,
		Credit:      line.Credit,
		JENumber:    &num,
		JEID:        &id,
	}
}

// lineKind extracts the event kind of a posted line's entry, if any.
func lineKind(line domain.PostedLine) (domain.EventKind, bool) {
	if line.Reference == nil {
		return "", false
	}
	kind, _, _, ok := domain.ParseReference(*line.Reference)
	return kind, ok
}

func kindIn(line domain.PostedLine, kinds ...domain.EventKind) bool {
	kind, ok := lineKind(line)
	if !ok {
		return false
	}
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// entryFor looks up a source event's posted entry by its reference key.
func entryFor(byRef map[string]domain.JournalEntry, ref string) *domain.JournalEntry {
	if entry, ok := byRef[ref]; ok {
		return &entry
	}
	return nil
}

func sourceRow(kind domain.EventKind, eventID string, date time.Time, description string, debit, credit decimal.Decimal) domain.SectionTransaction {
	label, _ := kind.Source()
	ref := kind.Ref(eventID)
	return domain.SectionTransaction{
		ID:          eventID,
		Date:        date,
		Description: description,
		Reference:   &ref,
		Source:      label.Label,
		SourceHref:  label.HrefPrefix + eventID,
		Debit:       debit,
		Credit:      credit,
	}
}
