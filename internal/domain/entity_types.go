package domain

// Entity type tags form a closed vocabulary; the apply registry is
// validated against this list at startup.
const (
	EntityTypeProvider           = "provider"
	EntityTypeProduct            = "product"
	EntityTypeTax                = "tax"
	EntityTypeDataSchemaConfig   = "dataSchemaConfig"
	EntityTypeDataUpload         = "dataUpload"
	EntityTypeEligibilityList    = "eligibilityList"
	EntityTypeLoanCycleConfig    = "loanCycleConfig"
	EntityTypeScoringRules       = "scoringRules"
	EntityTypeTermsAndConditions = "termsAndConditions"
	EntityTypeBranch             = "branch"
	EntityTypeMerchants          = "merchants"
)

// Envelope subtype tags. Branch wraps physical-branch records, merchants
// wraps the merchant catalog including items.
const (
	SubtypeLocation       = "location"
	SubtypeInventoryLevel = "inventoryLevel"
	SubtypeCategory       = "category"
	SubtypeMerchant       = "merchant"
	SubtypeMerchantUser   = "merchantUser"
	SubtypeDiscountRule   = "discountRule"
	SubtypeItem           = "item"
)

// EntityTypes returns the full top-level vocabulary.
func EntityTypes() []string {
	return []string{
		EntityTypeProvider,
		EntityTypeProduct,
		EntityTypeTax,
		EntityTypeDataSchemaConfig,
		EntityTypeDataUpload,
		EntityTypeEligibilityList,
		EntityTypeLoanCycleConfig,
		EntityTypeScoringRules,
		EntityTypeTermsAndConditions,
		EntityTypeBranch,
		EntityTypeMerchants,
	}
}
