package formwire

// Validation rule categories as they appear at rule index 0.
const (
	ruleCategoryNumber   = 1
	ruleCategoryText     = 2
	ruleCategoryRegex    = 4
	ruleCategoryLength   = 6
	ruleCategoryCheckbox = 7
)

// (category, operator) pairs map onto the decoded validation kind. Unknown
// pairs decode to no validation at all.
var validationTable = map[int64]map[int64]ValidationType{
	ruleCategoryNumber: {
		1:  ValidationGreaterThan,
		2:  ValidationGreaterEqual,
		3:  ValidationLessThan,
		4:  ValidationLessEqual,
		5:  ValidationEqual,
		6:  ValidationNotEqual,
		7:  ValidationBetween,
		8:  ValidationNotBetween,
		9:  ValidationIsNumber,
		10: ValidationWholeNumber,
	},
	ruleCategoryText: {
		1: ValidationContains,
		2: ValidationNotContains,
		3: ValidationEmail,
		4: ValidationURL,
	},
	ruleCategoryRegex: {
		1: ValidationRegex,
		2: ValidationRegex,
	},
	ruleCategoryLength: {
		1: ValidationLengthMax,
		2: ValidationLengthMin,
		3: ValidationLengthEqual,
	},
	ruleCategoryCheckbox: {
		1: ValidationCheckboxMin,
		2: ValidationCheckboxMax,
		3: ValidationCheckboxExact,
	},
}

// Positions inside one rule group.
const (
	idxRuleCategory = 0
	idxRuleOperator = 1
	idxRuleOperands = 2
	// Slots 3.. may hold the author's custom error message; its exact
	// position drifts between blob revisions, so it is found by scanning.
	idxRuleMessageScanFrom = 3
	idxRuleMessageScanTo   = 5
)

// decodeValidation decodes the per-question validation slot. The slot holds
// a list of rule groups; only the first group is honored. Any malformed or
// unrecognized shape yields nil; absence of validation is never an error.
func decodeValidation(slot Node) *QuestionValidation {
	group := slot.Index(0)
	if !group.IsList() {
		return nil
	}

	category, ok := group.Index(idxRuleCategory).Int()
	if !ok {
		return nil
	}
	operator, ok := group.Index(idxRuleOperator).Int()
	if !ok {
		return nil
	}
	operators, ok := validationTable[category]
	if !ok {
		return nil
	}
	vType, ok := operators[operator]
	if !ok {
		return nil
	}

	v := &QuestionValidation{Type: vType}

	operands := group.Index(idxRuleOperands)
	v.Value = operands.Index(0).Stringify()
	if vType == ValidationBetween || vType == ValidationNotBetween {
		v.Value2 = operands.Index(1).Stringify()
	}

	// The custom error message, when present, is the first string-typed
	// element adjacent to the rule.
	for i := idxRuleMessageScanFrom; i <= idxRuleMessageScanTo; i++ {
		if msg, ok := group.Index(i).Text(); ok && msg != "" {
			v.ErrorMessage = msg
			break
		}
	}

	return v
}
