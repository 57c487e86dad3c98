package apply

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type stubProviderRepo struct {
	providers      map[uuid.UUID]domain.Provider
	ledgerAccounts []domain.LedgerAccount
	statusUpdates  map[uuid.UUID]string
	deleted        []uuid.UUID
}

func newStubProviderRepo() *stubProviderRepo {
	return &stubProviderRepo{
		providers:     map[uuid.UUID]domain.Provider{},
		statusUpdates: map[uuid.UUID]string{},
	}
}

func (s *stubProviderRepo) Create(_ context.Context, provider domain.Provider) (domain.Provider, error) {
	s.providers[provider.ID] = provider
	return provider, nil
}

func (s *stubProviderRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Provider, error) {
	provider, ok := s.providers[id]
	if !ok {
		return domain.Provider{}, fmt.Errorf("provider %s: %w", id, domain.ErrNotFound)
	}
	return provider, nil
}

func (s *stubProviderRepo) Update(_ context.Context, provider domain.Provider) error {
	s.providers[provider.ID] = provider
	return nil
}

func (s *stubProviderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.statusUpdates[id] = status
	return nil
}

func (s *stubProviderRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.providers, id)
	return nil
}

func (s *stubProviderRepo) CreateLedgerAccounts(_ context.Context, accounts []domain.LedgerAccount) error {
	s.ledgerAccounts = append(s.ledgerAccounts, accounts...)
	return nil
}

type eligibilityCall struct {
	ProductID uuid.UUID
	UploadID  uuid.UUID
	Filter    string
}

type stubProductRepo struct {
	products         map[uuid.UUID]domain.Product
	tiers            map[uuid.UUID][]domain.LoanAmountTier
	countByProvider  int
	statusUpdates    map[uuid.UUID]string
	deleted          []uuid.UUID
	eligibilityCalls []eligibilityCall
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:      map[uuid.UUID]domain.Product{},
		tiers:         map[uuid.UUID][]domain.LoanAmountTier{},
		statusUpdates: map[uuid.UUID]string{},
	}
}

func (s *stubProductRepo) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func (s *stubProductRepo) Update(_ context.Context, product domain.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.statusUpdates[id] = status
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductRepo) CountByProvider(context.Context, uuid.UUID) (int, error) {
	return s.countByProvider, nil
}

func (s *stubProductRepo) ReplaceTiers(_ context.Context, productID uuid.UUID, tiers []domain.LoanAmountTier) error {
	s.tiers[productID] = tiers
	return nil
}

func (s *stubProductRepo) AttachEligibility(_ context.Context, productID, uploadID uuid.UUID, filter string) error {
	s.eligibilityCalls = append(s.eligibilityCalls, eligibilityCall{productID, uploadID, filter})
	return nil
}

type stubTaxRepo struct {
	taxes         map[uuid.UUID]domain.Tax
	statusUpdates map[uuid.UUID]string
	deleted       []uuid.UUID
}

func newStubTaxRepo() *stubTaxRepo {
	return &stubTaxRepo{taxes: map[uuid.UUID]domain.Tax{}, statusUpdates: map[uuid.UUID]string{}}
}

func (s *stubTaxRepo) Create(_ context.Context, tax domain.Tax) (domain.Tax, error) {
	s.taxes[tax.ID] = tax
	return tax, nil
}

func (s *stubTaxRepo) Update(_ context.Context, tax domain.Tax) error {
	s.taxes[tax.ID] = tax
	return nil
}

func (s *stubTaxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.statusUpdates[id] = status
	return nil
}

func (s *stubTaxRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubLoanCycleRepo struct {
	configs map[uuid.UUID]domain.LoanCycleConfig
	deleted []uuid.UUID
}

func newStubLoanCycleRepo() *stubLoanCycleRepo {
	return &stubLoanCycleRepo{configs: map[uuid.UUID]domain.LoanCycleConfig{}}
}

func (s *stubLoanCycleRepo) Create(_ context.Context, config domain.LoanCycleConfig) (domain.LoanCycleConfig, error) {
	s.configs[config.ID] = config
	return config, nil
}

func (s *stubLoanCycleRepo) Update(_ context.Context, config domain.LoanCycleConfig) error {
	s.configs[config.ID] = config
	return nil
}

func (s *stubLoanCycleRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubSchemaConfigRepo struct {
	configs map[uuid.UUID]domain.DataSchemaConfig
	deleted []uuid.UUID
}

func newStubSchemaConfigRepo() *stubSchemaConfigRepo {
	return &stubSchemaConfigRepo{configs: map[uuid.UUID]domain.DataSchemaConfig{}}
}

func (s *stubSchemaConfigRepo) Create(_ context.Context, config domain.DataSchemaConfig) (domain.DataSchemaConfig, error) {
	s.configs[config.ID] = config
	return config, nil
}

func (s *stubSchemaConfigRepo) GetByID(_ context.Context, id uuid.UUID) (domain.DataSchemaConfig, error) {
	config, ok := s.configs[id]
	if !ok {
		return domain.DataSchemaConfig{}, fmt.Errorf("schema config %s: %w", id, domain.ErrNotFound)
	}
	return config, nil
}

func (s *stubSchemaConfigRepo) Update(_ context.Context, config domain.DataSchemaConfig) error {
	s.configs[config.ID] = config
	return nil
}

func (s *stubSchemaConfigRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.configs, id)
	return nil
}

func (s *stubSchemaConfigRepo) ListByProvider(_ context.Context, providerID uuid.UUID) ([]domain.DataSchemaConfig, error) {
	var out []domain.DataSchemaConfig
	for _, config := range s.configs {
		if config.ProviderID == providerID {
			out = append(out, config)
		}
	}
	return out, nil
}

type stubUploadRepo struct {
	uploads        []domain.DataUpload
	deletedConfigs []uuid.UUID
}

func (s *stubUploadRepo) Create(_ context.Context, upload domain.DataUpload) (domain.DataUpload, error) {
	s.uploads = append(s.uploads, upload)
	return upload, nil
}

func (s *stubUploadRepo) DeleteByConfig(_ context.Context, configID uuid.UUID) error {
	s.deletedConfigs = append(s.deletedConfigs, configID)
	return nil
}

type stubBorrowerRepo struct {
	byIdentifier map[string]domain.Borrower
}

func newStubBorrowerRepo() *stubBorrowerRepo {
	return &stubBorrowerRepo{byIdentifier: map[string]domain.Borrower{}}
}

func (s *stubBorrowerRepo) UpsertByIdentifier(_ context.Context, identifier string) (domain.Borrower, error) {
	if borrower, ok := s.byIdentifier[identifier]; ok {
		return borrower, nil
	}
	borrower := domain.Borrower{ID: uuid.New(), Identifier: identifier}
	s.byIdentifier[identifier] = borrower
	return borrower, nil
}

type stubProvisionedRowRepo struct {
	rows           map[string]domain.ProvisionedRow
	deletedConfigs []uuid.UUID
}

func newStubProvisionedRowRepo() *stubProvisionedRowRepo {
	return &stubProvisionedRowRepo{rows: map[string]domain.ProvisionedRow{}}
}

func provisionedKey(borrowerID, configID uuid.UUID) string {
	return borrowerID.String() + "|" + configID.String()
}

func (s *stubProvisionedRowRepo) Get(_ context.Context, borrowerID, configID uuid.UUID) (domain.ProvisionedRow, bool, error) {
	row, ok := s.rows[provisionedKey(borrowerID, configID)]
	return row, ok, nil
}

func (s *stubProvisionedRowRepo) Upsert(_ context.Context, row domain.ProvisionedRow) error {
	s.rows[provisionedKey(row.BorrowerID, row.ConfigID)] = row
	return nil
}

func (s *stubProvisionedRowRepo) DeleteByConfig(_ context.Context, configID uuid.UUID) error {
	s.deletedConfigs = append(s.deletedConfigs, configID)
	for key, row := range s.rows {
		if row.ConfigID == configID {
			delete(s.rows, key)
		}
	}
	return nil
}

type stubScoringRepo struct {
	snapshots    []domain.ScoringRuleSet
	linkedSets   map[uuid.UUID][]uuid.UUID
	liveRules    []domain.ScoringRule
	replaceCalls int
}

func newStubScoringRepo() *stubScoringRepo {
	return &stubScoringRepo{linkedSets: map[uuid.UUID][]uuid.UUID{}}
}

func (s *stubScoringRepo) CreateSnapshot(_ context.Context, set domain.ScoringRuleSet) error {
	s.snapshots = append(s.snapshots, set)
	return nil
}

func (s *stubScoringRepo) LinkProducts(_ context.Context, setID uuid.UUID, productIDs []uuid.UUID) error {
	s.linkedSets[setID] = productIDs
	return nil
}

func (s *stubScoringRepo) ReplaceLiveRules(_ context.Context, rules []domain.ScoringRule) error {
	s.liveRules = rules
	s.replaceCalls++
	return nil
}

type stubTermsRepo struct {
	maxVersion  int
	deactivated []uuid.UUID
	created     []domain.TermsVersion
}

func (s *stubTermsRepo) DeactivateByProvider(_ context.Context, providerID uuid.UUID) error {
	s.deactivated = append(s.deactivated, providerID)
	return nil
}

func (s *stubTermsRepo) MaxVersion(context.Context, uuid.UUID) (int, error) {
	return s.maxVersion, nil
}

func (s *stubTermsRepo) Create(_ context.Context, version domain.TermsVersion) (domain.TermsVersion, error) {
	s.created = append(s.created, version)
	return version, nil
}

type inventoryKey struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
}

type stubCatalogRepo struct {
	locations        map[uuid.UUID]domain.Location
	categories       map[uuid.UUID]domain.Category
	merchants        map[uuid.UUID]domain.Merchant
	merchantUsers    map[uuid.UUID]domain.MerchantUser
	discountRules    map[uuid.UUID]domain.DiscountRule
	inventoryLevels  []domain.InventoryLevel
	inventoryDeleted []inventoryKey
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		locations:     map[uuid.UUID]domain.Location{},
		categories:    map[uuid.UUID]domain.Category{},
		merchants:     map[uuid.UUID]domain.Merchant{},
		merchantUsers: map[uuid.UUID]domain.MerchantUser{},
		discountRules: map[uuid.UUID]domain.DiscountRule{},
	}
}

func (s *stubCatalogRepo) CreateLocation(_ context.Context, location domain.Location) (domain.Location, error) {
	s.locations[location.ID] = location
	return location, nil
}

func (s *stubCatalogRepo) UpdateLocation(_ context.Context, location domain.Location) error {
	s.locations[location.ID] = location
	return nil
}

func (s *stubCatalogRepo) DeleteLocation(_ context.Context, id uuid.UUID) error {
	delete(s.locations, id)
	return nil
}

func (s *stubCatalogRepo) LocationExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.locations[id]
	return ok, nil
}

func (s *stubCatalogRepo) CreateCategory(_ context.Context, category domain.Category) (domain.Category, error) {
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubCatalogRepo) UpdateCategory(_ context.Context, category domain.Category) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubCatalogRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delete(s.categories, id)
	return nil
}

func (s *stubCatalogRepo) CreateMerchant(_ context.Context, merchant domain.Merchant) (domain.Merchant, error) {
	s.merchants[merchant.ID] = merchant
	return merchant, nil
}

func (s *stubCatalogRepo) UpdateMerchant(_ context.Context, merchant domain.Merchant) error {
	s.merchants[merchant.ID] = merchant
	return nil
}

func (s *stubCatalogRepo) DeleteMerchant(_ context.Context, id uuid.UUID) error {
	delete(s.merchants, id)
	return nil
}

func (s *stubCatalogRepo) CreateMerchantUser(_ context.Context, user domain.MerchantUser) (domain.MerchantUser, error) {
	s.merchantUsers[user.ID] = user
	return user, nil
}

func (s *stubCatalogRepo) UpdateMerchantUser(_ context.Context, user domain.MerchantUser) error {
	s.merchantUsers[user.ID] = user
	return nil
}

func (s *stubCatalogRepo) DeleteMerchantUser(_ context.Context, id uuid.UUID) error {
	delete(s.merchantUsers, id)
	return nil
}

func (s *stubCatalogRepo) CreateDiscountRule(_ context.Context, rule domain.DiscountRule) (domain.DiscountRule, error) {
	s.discountRules[rule.ID] = rule
	return rule, nil
}

func (s *stubCatalogRepo) UpdateDiscountRule(_ context.Context, rule domain.DiscountRule) error {
	s.discountRules[rule.ID] = rule
	return nil
}

func (s *stubCatalogRepo) DeleteDiscountRule(_ context.Context, id uuid.UUID) error {
	delete(s.discountRules, id)
	return nil
}

func (s *stubCatalogRepo) UpsertInventoryLevel(_ context.Context, level domain.InventoryLevel) error {
	for i, existing := range s.inventoryLevels {
		if existing.ItemID == level.ItemID && existing.LocationID == level.LocationID {
			s.inventoryLevels[i] = level
			return nil
		}
	}
	s.inventoryLevels = append(s.inventoryLevels, level)
	return nil
}

func (s *stubCatalogRepo) DeleteInventoryLevel(_ context.Context, itemID, locationID uuid.UUID) error {
	s.inventoryDeleted = append(s.inventoryDeleted, inventoryKey{itemID, locationID})
	return nil
}

type stubItemRepo struct {
	items        map[uuid.UUID]domain.Item
	groups       []domain.AttributeGroup
	values       []domain.AttributeValue
	variants     []domain.ItemVariant
	combinations []domain.CombinationInventoryRecord

	deletedItems        []uuid.UUID
	deletedGroups       []uuid.UUID
	deletedValues       []uuid.UUID
	deletedVariants     []uuid.UUID
	deletedCombinations []uuid.UUID
	quantityUpdates     map[uuid.UUID]int
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: map[uuid.UUID]domain.Item{}, quantityUpdates: map[uuid.UUID]int{}}
}

func (s *stubItemRepo) Create(_ context.Context, item domain.Item) (domain.Item, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubItemRepo) Update(_ context.Context, item domain.Item) error {
	s.items[item.ID] = item
	return nil
}

func (s *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deletedItems = append(s.deletedItems, id)
	delete(s.items, id)
	return nil
}

func (s *stubItemRepo) ListGroups(_ context.Context, itemID uuid.UUID) ([]domain.AttributeGroup, error) {
	var out []domain.AttributeGroup
	for _, group := range s.groups {
		if group.ItemID == itemID {
			out = append(out, group)
		}
	}
	return out, nil
}

func (s *stubItemRepo) CreateGroup(_ context.Context, group domain.AttributeGroup) (domain.AttributeGroup, error) {
	s.groups = append(s.groups, group)
	return group, nil
}

func (s *stubItemRepo) UpdateGroup(_ context.Context, group domain.AttributeGroup) error {
	for i, existing := range s.groups {
		if existing.ID == group.ID {
			s.groups[i] = group
		}
	}
	return nil
}

func (s *stubItemRepo) DeleteGroup(_ context.Context, id uuid.UUID) error {
	s.deletedGroups = append(s.deletedGroups, id)
	return nil
}

func (s *stubItemRepo) ListValues(_ context.Context, itemID uuid.UUID) ([]domain.AttributeValue, error) {
	groupIDs := map[uuid.UUID]struct{}{}
	for _, group := range s.groups {
		if group.ItemID == itemID {
			groupIDs[group.ID] = struct{}{}
		}
	}
	var out []domain.AttributeValue
	for _, value := range s.values {
		if _, ok := groupIDs[value.GroupID]; ok {
			out = append(out, value)
		}
	}
	return out, nil
}

func (s *stubItemRepo) CreateValue(_ context.Context, value domain.AttributeValue) (domain.AttributeValue, error) {
	s.values = append(s.values, value)
	return value, nil
}

func (s *stubItemRepo) UpdateValue(_ context.Context, value domain.AttributeValue) error {
	for i, existing := range s.values {
		if existing.ID == value.ID {
			s.values[i] = value
		}
	}
	return nil
}

func (s *stubItemRepo) DeleteValue(_ context.Context, id uuid.UUID) error {
	s.deletedValues = append(s.deletedValues, id)
	return nil
}

func (s *stubItemRepo) ListVariants(_ context.Context, itemID uuid.UUID) ([]domain.ItemVariant, error) {
	var out []domain.ItemVariant
	for _, variant := range s.variants {
		if variant.ItemID == itemID {
			out = append(out, variant)
		}
	}
	return out, nil
}

func (s *stubItemRepo) CreateVariant(_ context.Context, variant domain.ItemVariant) (domain.ItemVariant, error) {
	s.variants = append(s.variants, variant)
	return variant, nil
}

func (s *stubItemRepo) UpdateVariant(_ context.Context, variant domain.ItemVariant) error {
	for i, existing := range s.variants {
		if existing.ID == variant.ID {
			s.variants[i] = variant
		}
	}
	return nil
}

func (s *stubItemRepo) DeleteVariant(_ context.Context, id uuid.UUID) error {
	s.deletedVariants = append(s.deletedVariants, id)
	return nil
}

func (s *stubItemRepo) ListCombinations(_ context.Context, itemID uuid.UUID) ([]domain.CombinationInventoryRecord, error) {
	var out []domain.CombinationInventoryRecord
	for _, record := range s.combinations {
		if record.ItemID == itemID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubItemRepo) CreateCombination(_ context.Context, record domain.CombinationInventoryRecord) error {
	s.combinations = append(s.combinations, record)
	return nil
}

func (s *stubItemRepo) UpdateCombinationQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	s.quantityUpdates[id] = quantity
	for i, record := range s.combinations {
		if record.ID == id {
			s.combinations[i].QuantityAvailable = quantity
		}
	}
	return nil
}

func (s *stubItemRepo) DeleteCombination(_ context.Context, id uuid.UUID) error {
	s.deletedCombinations = append(s.deletedCombinations, id)
	return nil
}

// stubRepos bundles fresh stubs into a Repositories value for applier tests.
type stubRepos struct {
	providers       *stubProviderRepo
	products        *stubProductRepo
	taxes           *stubTaxRepo
	loanCycles      *stubLoanCycleRepo
	schemaConfigs   *stubSchemaConfigRepo
	uploads         *stubUploadRepo
	borrowers       *stubBorrowerRepo
	provisionedRows *stubProvisionedRowRepo
	scoring         *stubScoringRepo
	terms           *stubTermsRepo
	catalog         *stubCatalogRepo
	items           *stubItemRepo
}

func newStubRepos() *stubRepos {
	return &stubRepos{
		providers:       newStubProviderRepo(),
		products:        newStubProductRepo(),
		taxes:           newStubTaxRepo(),
		loanCycles:      newStubLoanCycleRepo(),
		schemaConfigs:   newStubSchemaConfigRepo(),
		uploads:         &stubUploadRepo{},
		borrowers:       newStubBorrowerRepo(),
		provisionedRows: newStubProvisionedRowRepo(),
		scoring:         newStubScoringRepo(),
		terms:           &stubTermsRepo{},
		catalog:         newStubCatalogRepo(),
		items:           newStubItemRepo(),
	}
}

func (s *stubRepos) repositories() repository.Repositories {
	return repository.Repositories{
		Providers:       s.providers,
		Products:        s.products,
		Taxes:           s.taxes,
		LoanCycles:      s.loanCycles,
		SchemaConfigs:   s.schemaConfigs,
		Uploads:         s.uploads,
		Borrowers:       s.borrowers,
		ProvisionedRows: s.provisionedRows,
		Scoring:         s.scoring,
		Terms:           s.terms,
		Catalog:         s.catalog,
		Items:           s.items,
	}
}
