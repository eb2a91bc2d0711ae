package model

import "sort"

// Recognized input columns.
const (
	FieldCedant              = "Cedant"
	FieldInsured             = "Insured"
	FieldBroker              = "Broker"
	FieldGeography           = "Geography"
	FieldState               = "State"
	FieldCountry             = "Country"
	FieldLocation            = "Location"
	FieldTerritory           = "Territory"
	FieldPeril               = "Peril"
	FieldPerils              = "Perils"
	FieldPerilsCovered       = "PerilsCovered"
	FieldCoverage            = "Coverage"
	FieldRisk                = "Risk"
	FieldBusinessType        = "BusinessType"
	FieldOccupation          = "Occupation"
	FieldIndustry            = "Industry"
	FieldSector              = "Sector"
	FieldBusiness            = "Business"
	FieldSumInsured          = "SumInsured"
	FieldPastPremium         = "PastPremium"
	FieldRetention           = "Retention"
	FieldDeductible          = "Deductible"
	FieldLimit               = "Limit"
	FieldCurrency            = "Currency"
	FieldClaimRatio          = "ClaimRatio"
	FieldLossRatio           = "LossRatio"
	FieldESGScore            = "ESGScore"
	FieldCatastropheExposure = "CatastropheExposure"
	FieldLossHistory         = "LossHistory"
)

// Derived output columns.
const (
	FieldPremiumRate           = "PremiumRate"
	FieldLossFrequency         = "LossFrequency"
	FieldAvgAnnualLoss         = "AvgAnnualLoss"
	FieldLossSeverity          = "LossSeverity"
	FieldLossTrend             = "LossTrend"
	FieldRiskSizeCategory      = "RiskSizeCategory"
	FieldPremiumAdequacy       = "PremiumAdequacy"
	FieldDataCompleteness      = "DataCompletenessScore"
	FieldRetentionRatio        = "RetentionRatio"
	FieldGeographicRiskScore   = "GeographicRiskScore"
	FieldBusinessTypeRiskScore = "BusinessTypeRiskScore"
	FieldPerilRiskScore        = "PerilRiskScore"
	FieldCombinedRiskScore     = "CombinedRiskScore"
	FieldNormalizedRiskScore   = "NormalizedRiskScore"
	FieldRiskCategory          = "RiskCategory"
	FieldIsDuplicate           = "IsDuplicate"
	FieldQualityFlags          = "QualityFlags"
	FieldValidationSummary     = "ValidationSummary"
)

// GeographyColumns are the aliases standardized against the geography vocabulary.
var GeographyColumns = []string{FieldGeography, FieldState, FieldCountry, FieldLocation, FieldTerritory}

// PerilColumns are the aliases standardized against the peril vocabulary.
var PerilColumns = []string{FieldPeril, FieldPerils, FieldPerilsCovered, FieldCoverage, FieldRisk}

// BusinessColumns are the aliases standardized against the business vocabulary.
var BusinessColumns = []string{FieldBusinessType, FieldOccupation, FieldIndustry, FieldSector, FieldBusiness}

// MonetaryColumns are always parsed as money when present.
var MonetaryColumns = []string{FieldSumInsured, FieldPastPremium, FieldRetention, FieldDeductible, FieldLimit}

// RatioColumns hold fractions that may arrive as text.
var RatioColumns = []string{FieldClaimRatio, FieldLossRatio, FieldESGScore, FieldCatastropheExposure}

// CompletenessFields are the fields counted by DataCompletenessScore.
var CompletenessFields = []string{
	FieldCedant, FieldInsured, FieldGeography, FieldPeril,
	FieldSumInsured, FieldBusinessType, FieldPastPremium, FieldClaimRatio,
}

// DuplicateKeyFields form the composite duplicate key.
var DuplicateKeyFields = []string{FieldCedant, FieldInsured, FieldSumInsured, FieldPeril}

// InputColumnOrder is the presentation order used when records arrive as
// unordered maps.
var InputColumnOrder = []string{
	FieldCedant, FieldInsured, FieldBroker,
	FieldGeography, FieldState, FieldCountry, FieldLocation, FieldTerritory,
	FieldPeril, FieldPerils, FieldPerilsCovered, FieldCoverage, FieldRisk,
	FieldBusinessType, FieldOccupation, FieldIndustry, FieldSector, FieldBusiness,
	FieldSumInsured, FieldPastPremium, FieldRetention, FieldDeductible, FieldLimit,
	FieldCurrency, FieldClaimRatio, FieldLossRatio, FieldESGScore, FieldCatastropheExposure,
	FieldLossHistory,
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
