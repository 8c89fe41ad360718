package formwire

// QuestionType identifies how a question is answered. Codes outside the
// known set map to TypeUnknown and produce no answer.
type QuestionType string

const (
	TypeShortText          QuestionType = "short_text"
	TypeParagraph          QuestionType = "paragraph"
	TypeMultipleChoice     QuestionType = "multiple_choice"
	TypeDropdown           QuestionType = "dropdown"
	TypeCheckbox           QuestionType = "checkbox"
	TypeLinearScale        QuestionType = "linear_scale"
	TypeMultipleChoiceGrid QuestionType = "multiple_choice_grid"
	TypeCheckboxGrid       QuestionType = "checkbox_grid"
	TypeDate               QuestionType = "date"
	TypeTime               QuestionType = "time"
	TypeFileUpload         QuestionType = "file_upload"
	TypeUnknown            QuestionType = "unknown"
)

// IsChoice reports whether answers are picked from a fixed option list.
func (t QuestionType) IsChoice() bool {
	switch t {
	case TypeMultipleChoice, TypeDropdown, TypeCheckbox, TypeLinearScale:
		return true
	}
	return false
}

// ValidationType is the decoded kind of a form-author validation rule.
type ValidationType string

const (
	ValidationGreaterThan   ValidationType = "greater_than"
	ValidationGreaterEqual  ValidationType = "greater_equal"
	ValidationLessThan      ValidationType = "less_than"
	ValidationLessEqual     ValidationType = "less_equal"
	ValidationEqual         ValidationType = "equal"
	ValidationNotEqual      ValidationType = "not_equal"
	ValidationBetween       ValidationType = "between"
	ValidationNotBetween    ValidationType = "not_between"
	ValidationIsNumber      ValidationType = "is_number"
	ValidationWholeNumber   ValidationType = "whole_number"
	ValidationContains      ValidationType = "contains"
	ValidationNotContains   ValidationType = "not_contains"
	ValidationEmail         ValidationType = "email"
	ValidationURL           ValidationType = "url"
	ValidationLengthMax     ValidationType = "length_max"
	ValidationLengthMin     ValidationType = "length_min"
	ValidationLengthEqual   ValidationType = "length_equal"
	ValidationRegex         ValidationType = "regex"
	ValidationCheckboxMin   ValidationType = "checkbox_min"
	ValidationCheckboxMax   ValidationType = "checkbox_max"
	ValidationCheckboxExact ValidationType = "checkbox_exact"
)

// IsNumeric reports whether the rule constrains a numeric answer.
func (v ValidationType) IsNumeric() bool {
	switch v {
	case ValidationGreaterThan, ValidationGreaterEqual, ValidationLessThan,
		ValidationLessEqual, ValidationEqual, ValidationNotEqual,
		ValidationBetween, ValidationNotBetween, ValidationIsNumber,
		ValidationWholeNumber:
		return true
	}
	return false
}

// IsTextual reports whether the rule constrains text content or length.
func (v ValidationType) IsTextual() bool {
	switch v {
	case ValidationLengthMax, ValidationLengthMin, ValidationLengthEqual,
		ValidationContains, ValidationNotContains, ValidationRegex:
		return true
	}
	return false
}

// QuestionValidation is a decoded validation rule. Value2 is set only for
// between / not_between.
type QuestionValidation struct {
	Type         ValidationType `json:"type"`
	Value        string         `json:"value,omitempty"`
	Value2       string         `json:"value2,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// QuestionOption is one selectable choice. Value is what gets submitted;
// the platform reuses the label as the value.
type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ScaleSpec describes a linear scale question's bounds.
type ScaleSpec struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	MinLabel string `json:"min_label,omitempty"`
	MaxLabel string `json:"max_label,omitempty"`
}

// GridSpec describes grid rows and columns.
type GridSpec struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
}

// ParsedQuestion is one normalized question extracted from the wire blob.
type ParsedQuestion struct {
	ID          string              `json:"id"`
	EntryID     string              `json:"entry_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Type        QuestionType        `json:"type"`
	Required    bool                `json:"required"`
	Options     []QuestionOption    `json:"options,omitempty"`
	Scale       *ScaleSpec          `json:"scale,omitempty"`
	Grid        *GridSpec           `json:"grid,omitempty"`
	Validation  *QuestionValidation `json:"validation,omitempty"`
	Skipped     bool                `json:"skipped,omitempty"`
	SkipReason  string              `json:"skip_reason,omitempty"`
}

// ParsedForm is the normalized result of decoding one form page.
type ParsedForm struct {
	FormID           string           `json:"form_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	Questions        []ParsedQuestion `json:"questions"`
	SkippedQuestions []ParsedQuestion `json:"skipped_questions,omitempty"`
	PageHistory      []int            `json:"page_history"`
	IsPublishedForm  bool             `json:"is_published_form"`
	RequiresSignIn   bool             `json:"requires_sign_in,omitempty"`
	HasFileUpload    bool             `json:"has_file_upload,omitempty"`
	// Fbzx is the anti-forgery token scraped from the page, when present.
	Fbzx string `json:"fbzx,omitempty"`
}
