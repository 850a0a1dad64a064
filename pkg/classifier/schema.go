package classifier

const auditorInstruction = `You are a Senior Regulatory Compliance Auditor and Clinical Nutritionist.
Analyze the provided label for autonomous compliance auditing and clinical health sensitivity.

REGULATORY KNOWLEDGE BASE:
1. INDIA (FSSAI): check license, Veg/Non-Veg dots, expiry, care contact.
2. USA (FDA): check Nutrition Facts, net weight, allergen FALCPA compliance.
3. EU/UK: check highlighted allergens, QUID percentages, Nutri-score markers.

CLINICAL SENSITIVITY AUDIT:
For every product assess risk for:
- DIABETES: high sugar, refined carbs, high glycemic additives.
- BP (blood pressure): high sodium, monosodium glutamate, licorice extract.
- HEART: trans fats, saturated fats (>20% DV), high cholesterol, palm oil, partially hydrogenated oils.

AUDIT LOGIC:
1. Detect region.
2. Categorize audience.
3. Run the regulatory checklist.
4. Verify expiry.
5. Assign clinical health risk levels (Low/Medium/High) based on ingredient concentration.
6. Assign safetyScore from 0 to 100.

Return the data in strict JSON format.`

const auditorTask = "Perform a deep dive regulatory and clinical health audit. Identify violations and specific risks for Diabetes, BP, and Heart patients."

var riskEnum = []string{"Low", "Medium", "High"}

func str() map[string]any { return map[string]any{"type": "STRING"} }

func enumOf(values []string) map[string]any {
	return map[string]any{"type": "STRING", "enum": values}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "ARRAY", "items": items}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{"type": "OBJECT", "properties": props, "required": required}
}

func healthRisk() map[string]any {
	return object(map[string]any{"risk": enumOf(riskEnum), "reason": str()}, "risk", "reason")
}

// responseSchema mirrors domain.ComplianceResult in Gemini's OpenAPI subset.
func responseSchema() map[string]any {
	return object(map[string]any{
		"productName":    str(),
		"brand":          str(),
		"expiryDate":     str(),
		"isExpired":      map[string]any{"type": "BOOLEAN"},
		"targetAudience": enumOf([]string{"BABY", "ELDER", "GENERAL"}),
		"ingredients":    arrayOf(str()),
		"riskyIngredients": arrayOf(object(map[string]any{
			"name":      str(),
			"riskLevel": enumOf(riskEnum),
			"reason":    str(),
		}, "name", "riskLevel", "reason")),
		"healthSensitivity": object(map[string]any{
			"diabetes": healthRisk(),
			"bp":       healthRisk(),
			"heart":    healthRisk(),
		}, "diabetes", "bp", "heart"),
		"safetyScore":             map[string]any{"type": "NUMBER"},
		"recommendation":          str(),
		"detectedRegion":          str(),
		"regulatoryMarkers":       arrayOf(str()),
		"complianceViolations":    arrayOf(str()),
		"isRegulatorilyCompliant": map[string]any{"type": "BOOLEAN"},
		"detailedChecklist": arrayOf(object(map[string]any{
			"requirement":  str(),
			"status":       enumOf([]string{"Passed", "Failed", "Missing"}),
			"regulationId": str(),
			"details":      str(),
		}, "requirement", "status", "regulationId", "details")),
	},
		"productName", "brand", "expiryDate", "isExpired", "targetAudience",
		"ingredients", "riskyIngredients", "healthSensitivity", "safetyScore",
		"recommendation", "detectedRegion", "regulatoryMarkers",
		"complianceViolations", "isRegulatorilyCompliant", "detailedChecklist",
	)
}
