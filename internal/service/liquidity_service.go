package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/opsdash/liquidity-engine/internal/config"
	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/internal/events"
	"github.com/opsdash/liquidity-engine/internal/repository"
	customError "github.com/opsdash/liquidity-engine/pkg/errors"
	"github.com/opsdash/liquidity-engine/pkg/utils"
)

// Statuses that mark an invoice as still unpaid for seeding purposes.
var seedInvoiceStatuses = []string{
	domain.InvoiceStatusPending,
	domain.InvoiceStatusAwaitingApproval,
}

type LiquidityService struct {
	WeekRepo    repository.WeekRepository
	ItemRepo    repository.LineItemRepository
	InvoiceRepo repository.InvoiceRepository
	notifier    events.ChangeNotifier
	config      *config.Config
	logger      *logrus.Logger
}

func NewLiquidityService(
	weekRepo repository.WeekRepository,
	itemRepo repository.LineItemRepository,
	invoiceRepo repository.InvoiceRepository,
	notifier events.ChangeNotifier,
	config *config.Config,
	logger *logrus.Logger,
) *LiquidityService {
	return &LiquidityService{
		WeekRepo:    weekRepo,
		ItemRepo:    itemRepo,
		InvoiceRepo: invoiceRepo,
		notifier:    notifier,
		config:      config,
		logger:      logger,
	}
}

// EnsureCurrentWeek returns the week covering today, creating and seeding it
// if it does not exist yet. Seed failures never roll back the created week:
// the week is returned alongside the seed error.
func (s *LiquidityService) EnsureCurrentWeek(ctx context.Context) (*domain.LiquidityWeek, error) {
	weekStart := utils.WeekStart(time.Now())

	week, err := s.WeekRepo.GetByWeekStart(ctx, weekStart)
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now().UTC()
	week = &domain.LiquidityWeek{
		ID:             uuid.New(),
		WeekStart:      weekStart,
		OpeningBalance: decimal.Zero,
		AlertThreshold: s.config.GetDefaultAlertThreshold(),
		CreatedBy:      "system",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.WeekRepo.Create(ctx, week); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.notifier.WeekChanged(ctx, week.ID)

	if err := s.autoPopulate(ctx, week); err != nil {
		s.logger.WithError(err).WithField("week_id", week.ID).Warn("auto-populate after ensure failed")
		return week, customError.WrapSeedError(err)
	}

	return week, nil
}

// CreateWeek inserts a week at the caller's start date and seeds it from
// outstanding invoices. The start date is stored as given; only
// EnsureCurrentWeek aligns dates to a Monday. On seed failure the week
// stands and the error is returned alongside it.
func (s *LiquidityService) CreateWeek(ctx context.Context, request *domain.CreateWeekRequest) (*domain.LiquidityWeek, error) {
	weekStart, err := time.ParseInLocation("2006-01-02", request.WeekStart, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid week start date: %w", err)
	}

	existing, err := s.WeekRepo.GetByWeekStart(ctx, weekStart)
	if err == nil && existing != nil {
		return nil, customError.WrapWeekAlreadyExists(request.WeekStart)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now().UTC()
	week := &domain.LiquidityWeek{
		ID:             uuid.New(),
		WeekStart:      weekStart,
		OpeningBalance: request.OpeningBalance,
		AlertThreshold: request.AlertThreshold,
		Notes:          request.Notes,
		CreatedBy:      "user",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.WeekRepo.Create(ctx, week); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.notifier.WeekChanged(ctx, week.ID)

	if err := s.autoPopulate(ctx, week); err != nil {
		return week, customError.WrapSeedError(err)
	}

	return week, nil
}

// autoPopulate seeds a freshly created week with one payment item per unpaid
// supplier invoice and one collection item per unpaid customer invoice. The
// two invoice sources are seeded independently; a failure on one side does
// not prevent the other from being attempted.
func (s *LiquidityService) autoPopulate(ctx context.Context, week *domain.LiquidityWeek) error {
	supplierErr := s.seedSupplierItems(ctx, week)
	customerErr := s.seedCustomerItems(ctx, week)

	if supplierErr != nil || customerErr != nil {
		return errors.Join(supplierErr, customerErr)
	}

	s.notifier.LineItemsChanged(ctx, week.ID)

	return nil
}

func (s *LiquidityService) seedSupplierItems(ctx context.Context, week *domain.LiquidityWeek) error {
	invoices, err := s.InvoiceRepo.ListSupplierByStatus(ctx, seedInvoiceStatuses)
	if err != nil {
		return fmt.Errorf("list supplier invoices: %w", err)
	}

	now := time.Now().UTC()
	items := make([]*domain.LiquidityLineItem, 0, len(invoices))
	for _, inv := range invoices {
		invoiceID := inv.ID
		items = append(items, &domain.LiquidityLineItem{
			ID:                uuid.New(),
			WeekID:            week.ID,
			ItemType:          domain.ItemTypePayment,
			Description:       fmt.Sprintf("Supplier: %s — Inv#%s", counterpartyName(inv.SupplierName), inv.InvoiceNumber),
			ExpectedAmount:    utils.DecimalOrZero(inv.Amount),
			ActualAmount:      decimal.Zero,
			DueDate:           inv.DueDate,
			Status:            domain.ItemStatusPending,
			LinkedInvoiceID:   &invoiceID,
			LinkedInvoiceType: domain.LinkedInvoiceSupplier,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if len(items) == 0 {
		return nil
	}

	if err := s.ItemRepo.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("seed supplier items: %w", err)
	}

	return nil
}

func (s *LiquidityService) seedCustomerItems(ctx context.Context, week *domain.LiquidityWeek) error {
	invoices, err := s.InvoiceRepo.ListCustomerByStatus(ctx, seedInvoiceStatuses)
	if err != nil {
		return fmt.Errorf("list customer invoices: %w", err)
	}

	now := time.Now().UTC()
	items := make([]*domain.LiquidityLineItem, 0, len(invoices))
	for _, inv := range invoices {
		invoiceID := inv.ID
		items = append(items, &domain.LiquidityLineItem{
			ID:                uuid.New(),
			WeekID:            week.ID,
			ItemType:          domain.ItemTypeCollection,
			Description:       fmt.Sprintf("Customer: %s — Inv#%s", counterpartyName(inv.ClientName), inv.InvoiceNumber),
			ExpectedAmount:    utils.DecimalOrZero(inv.Amount),
			ActualAmount:      decimal.Zero,
			Status:            domain.ItemStatusPending,
			LinkedInvoiceID:   &invoiceID,
			LinkedInvoiceType: domain.LinkedInvoiceCustomer,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if len(items) == 0 {
		return nil
	}

	if err := s.ItemRepo.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("seed customer items: %w", err)
	}

	return nil
}

func counterpartyName(name *string) string {
	if name == nil || *name == "" {
		return "Unknown"
	}
	return *name
}

// ListWeeks returns all weeks, newest first.
func (s *LiquidityService) ListWeeks(ctx context.Context) ([]*domain.LiquidityWeek, error) {
	weeks, err := s.WeekRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return weeks, nil
}

// GetWeek returns a week with its line items, derived totals and alerts.
func (s *LiquidityService) GetWeek(ctx context.Context, weekID uuid.UUID) (*domain.WeekDetailResponse, error) {
	week, err := s.WeekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapWeekNotFound(weekID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	items, err := s.ItemRepo.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := Summarize(week, items)
	alerts := EvaluateAlerts(week, items, summary, time.Now().UTC(), s.config.GetDueSoonWindow())

	return &domain.WeekDetailResponse{
		Week:    week,
		Items:   items,
		Summary: summary,
		Alerts:  alerts,
	}, nil
}

// UpdateWeek applies a partial update to a week's top-level fields.
func (s *LiquidityService) UpdateWeek(ctx context.Context, weekID uuid.UUID, update *domain.WeekUpdate) (*domain.LiquidityWeek, error) {
	if _, err := s.getWeek(ctx, weekID); err != nil {
		return nil, err
	}

	if err := s.WeekRepo.Update(ctx, weekID, update); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	week, err := s.getWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}

	s.notifier.WeekChanged(ctx, weekID)

	return week, nil
}

// AddLineItem inserts a manual line item into a week. The item starts out
// pending with no actual amount recorded.
func (s *LiquidityService) AddLineItem(ctx context.Context, weekID uuid.UUID, request *domain.AddLineItemRequest) (*domain.LiquidityLineItem, error) {
	if _, err := s.getWeek(ctx, weekID); err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if request.DueDate != nil {
		parsed, err := time.ParseInLocation("2006-01-02", *request.DueDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}

	linkedType := request.LinkedInvoiceType
	if linkedType == "" {
		linkedType = domain.LinkedInvoiceManual
	}

	now := time.Now().UTC()
	item := &domain.LiquidityLineItem{
		ID:                uuid.New(),
		WeekID:            weekID,
		ItemType:          request.ItemType,
		Description:       request.Description,
		ExpectedAmount:    request.ExpectedAmount,
		ActualAmount:      decimal.Zero,
		DueDate:           dueDate,
		Status:            domain.ItemStatusPending,
		LinkedInvoiceType: linkedType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.ItemRepo.Create(ctx, item); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.notifier.LineItemsChanged(ctx, weekID)

	return item, nil
}

// UpdateLineItem applies a partial update to a line item. On the transition
// to completed the linked invoice, if any, is marked approved and an
// item-completed event is published; other field changes carry no side
// effects.
func (s *LiquidityService) UpdateLineItem(ctx context.Context, itemID uuid.UUID, update *domain.LineItemUpdate) (*domain.LiquidityLineItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.ItemRepo.Update(ctx, itemID, update); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	completing := update.Status != nil &&
		*update.Status == domain.ItemStatusCompleted &&
		item.Status != domain.ItemStatusCompleted

	if completing {
		if err := s.syncLinkedInvoice(ctx, item); err != nil {
			return nil, err
		}

		s.notifier.ItemCompleted(ctx, events.ItemCompletedEvent{
			ItemID:            item.ID,
			WeekID:            item.WeekID,
			LinkedInvoiceID:   item.LinkedInvoiceID,
			LinkedInvoiceType: item.LinkedInvoiceType,
		})
	}

	updated, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.notifier.LineItemsChanged(ctx, item.WeekID)

	return updated, nil
}

// syncLinkedInvoice mirrors a completed line item onto its source invoice,
// setting the invoice status to approved. Items without an invoice link, and
// manual links, are left alone.
func (s *LiquidityService) syncLinkedInvoice(ctx context.Context, item *domain.LiquidityLineItem) error {
	if item.LinkedInvoiceID == nil {
		return nil
	}

	var err error
	switch item.LinkedInvoiceType {
	case domain.LinkedInvoiceSupplier:
		err = s.InvoiceRepo.UpdateSupplierStatus(ctx, *item.LinkedInvoiceID, domain.InvoiceStatusApproved)
	case domain.LinkedInvoiceCustomer:
		err = s.InvoiceRepo.UpdateCustomerStatus(ctx, *item.LinkedInvoiceID, domain.InvoiceStatusApproved)
	default:
		return nil
	}

	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// MarkDone records the expected amount as received/paid in full today.
func (s *LiquidityService) MarkDone(ctx context.Context, itemID uuid.UUID) (*domain.LiquidityLineItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	amount := item.ExpectedAmount
	status := domain.ItemStatusCompleted
	today := time.Now().UTC()

	return s.UpdateLineItem(ctx, itemID, &domain.LineItemUpdate{
		ActualAmount: &amount,
		Status:       &status,
		PaymentDate:  &today,
	})
}

// RecordActual records an actual amount against an item and derives its
// status from the amount rule.
func (s *LiquidityService) RecordActual(ctx context.Context, itemID uuid.UUID, amount decimal.Decimal) (*domain.LiquidityLineItem, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	status := domain.DeriveStatus(item.ExpectedAmount, amount)
	today := time.Now().UTC()

	return s.UpdateLineItem(ctx, itemID, &domain.LineItemUpdate{
		ActualAmount: &amount,
		Status:       &status,
		PaymentDate:  &today,
	})
}

// DeleteLineItem hard-deletes a line item. The linked invoice is untouched.
func (s *LiquidityService) DeleteLineItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.ItemRepo.Delete(ctx, itemID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.notifier.LineItemsChanged(ctx, item.WeekID)

	return nil
}

// MonthlyPaymentDays returns one entry per calendar day of the month with the
// count, descriptions and summed expected amount of non-completed payment
// items due that day.
func (s *LiquidityService) MonthlyPaymentDays(ctx context.Context, year int, month time.Month) ([]*domain.MonthlyPaymentDay, error) {
	from, to := utils.MonthBounds(year, month)

	items, err := s.ItemRepo.ListPaymentsDueBetween(ctx, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	days := make([]*domain.MonthlyPaymentDay, utils.DaysInMonth(year, month))
	for i := range days {
		days[i] = &domain.MonthlyPaymentDay{
			Date:         from.AddDate(0, 0, i),
			Descriptions: []string{},
			TotalAmount:  decimal.Zero,
		}
	}

	for _, item := range items {
		if item.DueDate == nil {
			continue
		}
		day := days[item.DueDate.UTC().Day()-1]
		day.Count++
		day.Descriptions = append(day.Descriptions, item.Description)
		day.TotalAmount = day.TotalAmount.Add(item.ExpectedAmount)
	}

	return days, nil
}

func (s *LiquidityService) getWeek(ctx context.Context, weekID uuid.UUID) (*domain.LiquidityWeek, error) {
	week, err := s.WeekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapWeekNotFound(weekID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return week, nil
}

func (s *LiquidityService) getItem(ctx context.Context, itemID uuid.UUID) (*domain.LiquidityLineItem, error) {
	item, err := s.ItemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLineItemNotFound(itemID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return item, nil
}
