package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/dto"
	"github.com/buildledger/construction_ledger/internal/middleware"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// depreciationService posts a property's full straight-line depreciation
// schedule, one entry per month of useful life, skipping months that already
// have a posted entry.
type depreciationService struct {
	resolver  portssvc.AccountResolverSvcFacade
	ledger    portssvc.LedgerSvcFacade
	generator portssvc.EntryGeneratorSvcFacade
	postLimit int
}

// NewDepreciationService creates a new property depreciation service.
// postLimit caps how many entries post concurrently.
func NewDepreciationService(resolver portssvc.AccountResolverSvcFacade, ledger portssvc.LedgerSvcFacade, generator portssvc.EntryGeneratorSvcFacade, postLimit int) portssvc.DepreciationSvcFacade {
	if postLimit <= 0 {
		postLimit = 50
	}
	return &depreciationService{resolver: resolver, ledger: ledger, generator: generator, postLimit: postLimit}
}

var _ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)

// GenerateAllDepreciationJEs posts the whole schedule up front. Re-running on
// a fully posted property creates nothing and skips every month.
func (s *depreciationService) GenerateAllDepreciationJEs(ctx context.Context, companyID, userID string, attrs domain.PropertyAttributes) (*dto.DepreciationRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start, err := accounting.ParseLocalDate(attrs.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid depreciation start date: " + err.Error())
	}
	basis := accounting.DepreciableBasis(attrs.PurchasePrice, attrs.LandValue)
	years := accounting.UsefulLifeYears(attrs.PropertyType)
	monthly := accounting.MonthlyDepreciation(basis, years).Round(2)
	totalMonths := accounting.TotalMonths(years)

	result := &dto.DepreciationRunResult{TotalMonths: totalMonths, MonthlyAmount: monthly}
	if totalMonths == 0 || !monthly.IsPositive() {
		logger.Info("Nothing to depreciate", slog.String("property_id", attrs.PropertyID))
		return result, nil
	}

	if _, err := s.resolver.EnsureStandardAccounts(ctx, companyID, userID); err != nil {
		return nil, err
	}
	roles, err := s.resolver.ResolveRoles(ctx, companyID)
	if err != nil {
		return nil, err
	}

	months := accounting.MonthSequence(start, totalMonths)
	refs := make([]string, len(months))
	for i, ym := range months {
		refs[i] = domain.KindDepreciation.PeriodRef(attrs.PropertyID, ym.Year, ym.Month)
	}
	existing, err := s.ledger.FindPostedReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	var created, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.postLimit)
	for i, ym := range months {
		if _, ok := existing[refs[i]]; ok {
			result.Skipped++
			continue
		}
		ym := ym
		g.Go(func() error {
			if _, err := s.generator.PropertyDepreciationEntry(gctx, companyID, userID, attrs, roles, ym, monthly); err != nil {
				failed.Add(1)
				logger.Warn("Failed to post depreciation month",
					slog.String("property_id", attrs.PropertyID),
					slog.String("period", ym.String()),
					slog.String("error", err.Error()))
				return nil // per-month failures never abort the run
			}
			created.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Created = int(created.Load())

	logger.Info("Depreciation run finished",
		slog.String("property_id", attrs.PropertyID),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int64("failed", failed.Load()))
	return result, nil
}
