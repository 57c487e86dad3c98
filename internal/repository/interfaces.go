package repository

import (
	"context"
	"time"

	"github.com/lendstack/backoffice/internal/domain"

	"github.com/google/uuid"
)

// PendingChangeRepository stores staged changes and their terminal state.
type PendingChangeRepository interface {
	Create(ctx context.Context, change domain.PendingChange) (domain.PendingChange, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.PendingChange, error)
	// ClaimApproved conditionally marks a PENDING change approved. It
	// returns false when the row was no longer PENDING, which closes the
	// concurrent double-approval race.
	ClaimApproved(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, approvedAt time.Time) (bool, error)
	// ClaimRejected is the rejection counterpart of ClaimApproved.
	ClaimRejected(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, reason string) (bool, error)
	List(ctx context.Context, status *domain.ChangeStatus, limit, offset int) ([]domain.PendingChange, error)
}

// ProviderRepository defines provider and chart-of-accounts operations.
type ProviderRepository interface {
	Create(ctx context.Context, provider domain.Provider) (domain.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Provider, error)
	Update(ctx context.Context, provider domain.Provider) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateLedgerAccounts(ctx context.Context, accounts []domain.LedgerAccount) error
}

// ProductRepository defines loan product operations.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByProvider(ctx context.Context, providerID uuid.UUID) (int, error)
	// ReplaceTiers fully replaces the loan-amount tier set of a product.
	ReplaceTiers(ctx context.Context, productID uuid.UUID, tiers []domain.LoanAmountTier) error
	AttachEligibility(ctx context.Context, productID uuid.UUID, uploadID uuid.UUID, filter string) error
}

// TaxRepository defines tax operations.
type TaxRepository interface {
	Create(ctx context.Context, tax domain.Tax) (domain.Tax, error)
	Update(ctx context.Context, tax domain.Tax) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoanCycleRepository defines loan-cycle config operations.
type LoanCycleRepository interface {
	Create(ctx context.Context, config domain.LoanCycleConfig) (domain.LoanCycleConfig, error)
	Update(ctx context.Context, config domain.LoanCycleConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SchemaConfigRepository defines data-schema config operations.
type SchemaConfigRepository interface {
	Create(ctx context.Context, config domain.DataSchemaConfig) (domain.DataSchemaConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.DataSchemaConfig, error)
	Update(ctx context.Context, config domain.DataSchemaConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.DataSchemaConfig, error)
}

// UploadRepository records approved tabular uploads.
type UploadRepository interface {
	Create(ctx context.Context, upload domain.DataUpload) (domain.DataUpload, error)
	DeleteByConfig(ctx context.Context, configID uuid.UUID) error
}

// BorrowerRepository keys borrower master records by external identifier.
type BorrowerRepository interface {
	UpsertByIdentifier(ctx context.Context, identifier string) (domain.Borrower, error)
}

// ProvisionedRowRepository stores per-borrower provisioned data.
type ProvisionedRowRepository interface {
	Get(ctx context.Context, borrowerID, configID uuid.UUID) (domain.ProvisionedRow, bool, error)
	// Upsert writes the row for (borrower, config). Merge policy is
	// shallow, incoming wins per field; callers pass the merged Data.
	Upsert(ctx context.Context, row domain.ProvisionedRow) error
	DeleteByConfig(ctx context.Context, configID uuid.UUID) error
}

// ScoringRepository manages live scoring rules and history snapshots.
type ScoringRepository interface {
	CreateSnapshot(ctx context.Context, set domain.ScoringRuleSet) error
	LinkProducts(ctx context.Context, setID uuid.UUID, productIDs []uuid.UUID) error
	ReplaceLiveRules(ctx context.Context, rules []domain.ScoringRule) error
}

// TermsRepository manages versioned terms and conditions.
type TermsRepository interface {
	DeactivateByProvider(ctx context.Context, providerID uuid.UUID) error
	MaxVersion(ctx context.Context, providerID uuid.UUID) (int, error)
	Create(ctx context.Context, version domain.TermsVersion) (domain.TermsVersion, error)
}

// CatalogRepository covers the branch/merchant catalog sub-entities.
type CatalogRepository interface {
	CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error)
	UpdateLocation(ctx context.Context, location domain.Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	LocationExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateMerchant(ctx context.Context, merchant domain.Merchant) (domain.Merchant, error)
	UpdateMerchant(ctx context.Context, merchant domain.Merchant) error
	DeleteMerchant(ctx context.Context, id uuid.UUID) error

	CreateMerchantUser(ctx context.Context, user domain.MerchantUser) (domain.MerchantUser, error)
	UpdateMerchantUser(ctx context.Context, user domain.MerchantUser) error
	DeleteMerchantUser(ctx context.Context, id uuid.UUID) error

	CreateDiscountRule(ctx context.Context, rule domain.DiscountRule) (domain.DiscountRule, error)
	UpdateDiscountRule(ctx context.Context, rule domain.DiscountRule) error
	DeleteDiscountRule(ctx context.Context, id uuid.UUID) error

	UpsertInventoryLevel(ctx context.Context, level domain.InventoryLevel) error
	DeleteInventoryLevel(ctx context.Context, itemID, locationID uuid.UUID) error
}

// ItemRepository covers items, their attribute option groups and values,
// variants, and combination-level inventory.
type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	Update(ctx context.Context, item domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListGroups(ctx context.Context, itemID uuid.UUID) ([]domain.AttributeGroup, error)
	CreateGroup(ctx context.Context, group domain.AttributeGroup) (domain.AttributeGroup, error)
	UpdateGroup(ctx context.Context, group domain.AttributeGroup) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	ListValues(ctx context.Context, itemID uuid.UUID) ([]domain.AttributeValue, error)
	CreateValue(ctx context.Context, value domain.AttributeValue) (domain.AttributeValue, error)
	UpdateValue(ctx context.Context, value domain.AttributeValue) error
	DeleteValue(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context, itemID uuid.UUID) ([]domain.ItemVariant, error)
	CreateVariant(ctx context.Context, variant domain.ItemVariant) (domain.ItemVariant, error)
	UpdateVariant(ctx context.Context, variant domain.ItemVariant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ListCombinations(ctx context.Context, itemID uuid.UUID) ([]domain.CombinationInventoryRecord, error)
	CreateCombination(ctx context.Context, record domain.CombinationInventoryRecord) error
	UpdateCombinationQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteCombination(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles every repository bound to one executor (pool or
// open transaction).
type Repositories struct {
	PendingChanges  PendingChangeRepository
	Providers       ProviderRepository
	Products        ProductRepository
	Taxes           TaxRepository
	LoanCycles      LoanCycleRepository
	SchemaConfigs   SchemaConfigRepository
	Uploads         UploadRepository
	Borrowers       BorrowerRepository
	ProvisionedRows ProvisionedRowRepository
	Scoring         ScoringRepository
	Terms           TermsRepository
	Catalog         CatalogRepository
	Items           ItemRepository
}

// TxManager runs a function against transaction-bound repositories. Any
// error rolls the whole transaction back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
