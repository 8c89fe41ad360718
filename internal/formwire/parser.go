package formwire

import (
	"errors"
	"fmt"
)

// ErrNoForm is returned when the top-level blob does not contain a usable
// form container. Individual malformed items never produce this; they are
// dropped silently.
var ErrNoForm = errors.New("form data missing or unrecognizable")

// Question type codes as they appear at item index 3.
var questionTypeCodes = map[int64]QuestionType{
	0:  TypeShortText,
	1:  TypeParagraph,
	2:  TypeMultipleChoice,
	3:  TypeDropdown,
	4:  TypeCheckbox,
	5:  TypeLinearScale,
	7:  TypeMultipleChoiceGrid,
	8:  TypeCheckboxGrid,
	9:  TypeDate,
	10: TypeTime,
	13: TypeFileUpload,
}

const fileUploadSkipReason = "file upload questions cannot be automated"

// Consumed positions in the wire blob. Everything else is unspecified and
// deliberately ignored.
const (
	idxFormInfo = 1 // root[1]: form info container

	idxFormDescription = 0  // formInfo[0]
	idxFormItems       = 1  // formInfo[1]: item list
	idxFormTitle       = 8  // formInfo[8]
	idxFormID          = 14 // formInfo[14], falling back to formInfo[0]

	idxItemID         = 0  // item[0]: question id
	idxItemTitle      = 1  // item[1]
	idxItemDesc       = 2  // item[2]
	idxItemTypeCode   = 3  // item[3]
	idxItemEntryData  = 4  // item[4]: entry-data list (or nested page items)
	idxItemNavigation = 11 // item[11]: section navigation metadata

	idxEntryID       = 0 // entry[0]: numeric entry id
	idxEntryOptions  = 1 // entry[1]: option / scale value list
	idxEntryLabels   = 3 // entry[3]: scale endpoint labels / grid row label
	idxEntryRequired = 4 // entry[4]: 1 = required; grids carry validation here
	idxEntryRules    = 5 // entry[5]: validation slot on non-grid questions
)

func formInfo(root Node) Node     { return root.Index(idxFormInfo) }
func formItems(info Node) Node    { return info.Index(idxFormItems) }
func itemEntryData(item Node) Node { return item.Index(idxItemEntryData) }

// hasEntryID checks for a well-formed entry id at item[4][0][0]. Section
// breaks fail this check; real questions pass it.
func hasEntryID(item Node) bool {
	first := itemEntryData(item).Index(0)
	if !first.IsList() {
		return false
	}
	_, ok := first.Index(idxEntryID).Number()
	return ok
}

// isSectionBreak applies the page-break heuristic: navigation metadata
// present and no well-formed entry id. This is best-effort pattern matching
// against an unversioned wire contract; when it misfires the item falls
// through to the question parser, which drops anything it cannot decode.
func isSectionBreak(item Node) bool {
	nav := item.Index(idxItemNavigation)
	return nav.IsList() && nav.Len() > 0 && !hasEntryID(item)
}

// ParseForm decodes the root blob into a normalized form. Malformed items
// are dropped; a missing or malformed top-level container fails the whole
// parse with ErrNoForm.
func ParseForm(root Node) (*ParsedForm, error) {
	info := formInfo(root)
	items := formItems(info)
	if !info.IsList() || !items.IsList() {
		return nil, ErrNoForm
	}

	form := &ParsedForm{
		Title:       "Untitled Form",
		PageHistory: []int{0},
	}
	if title, ok := info.Index(idxFormTitle).Text(); ok && title != "" {
		form.Title = title
	}
	if desc, ok := info.Index(idxFormDescription).Text(); ok && desc != "" {
		form.Description = desc
	}
	if id := info.Index(idxFormID).Stringify(); id != "" {
		form.FormID = id
	} else {
		form.FormID = info.Index(idxFormDescription).Stringify()
	}

	for i := 0; i < items.Len(); i++ {
		item := items.Index(i)
		if !item.IsList() {
			continue
		}

		if isSectionBreak(item) {
			// Each section break starts a new page the submission must
			// declare as visited.
			form.PageHistory = append(form.PageHistory, len(form.PageHistory))
			continue
		}

		if q, skipped := parseQuestion(item); q != nil {
			form.Questions = append(form.Questions, *q)
			continue
		} else if skipped != nil {
			form.SkippedQuestions = append(form.SkippedQuestions, *skipped)
			continue
		}

		// Multi-page forms wrap question items one level deeper inside a
		// page container at the same entry-data index.
		nested := itemEntryData(item)
		for j := 0; j < nested.Len(); j++ {
			child := nested.Index(j)
			if !child.IsList() {
				continue
			}
			if q, skipped := parseQuestion(child); q != nil {
				form.Questions = append(form.Questions, *q)
			} else if skipped != nil {
				form.SkippedQuestions = append(form.SkippedQuestions, *skipped)
			}
		}
	}

	form.HasFileUpload = len(form.SkippedQuestions) > 0
	return form, nil
}

// parseQuestion decodes one item. Returns (question, nil) for supported
// questions, (nil, skipped) for file uploads, and (nil, nil) for anything
// that does not decode as a question.
func parseQuestion(item Node) (*ParsedQuestion, *ParsedQuestion) {
	entryData := itemEntryData(item)
	if !entryData.IsList() || entryData.Len() == 0 {
		return nil, nil
	}
	first := entryData.Index(0)
	if !first.IsList() {
		return nil, nil
	}
	entryNum, ok := first.Index(idxEntryID).Int()
	if !ok {
		return nil, nil
	}
	// A nested question item also starts with a number (its question id),
	// but carries its title string at index 1 where a real entry holds an
	// option list or null. Rejecting that shape here lets page containers
	// fall through to the one-level flattening pass.
	if _, isTitle := first.Index(idxEntryOptions).Text(); isTitle {
		return nil, nil
	}

	typeCode, _ := item.Index(idxItemTypeCode).Int()
	qType, mapped := questionTypeCodes[typeCode]
	if !mapped {
		qType = TypeUnknown
	}

	q := &ParsedQuestion{
		ID:       item.Index(idxItemID).Stringify(),
		EntryID:  fmt.Sprintf("entry.%d", entryNum),
		Title:    "Untitled Question",
		Type:     qType,
		Required: isRequired(first),
	}
	if title, ok := item.Index(idxItemTitle).Text(); ok && title != "" {
		q.Title = title
	}
	if desc, ok := item.Index(idxItemDesc).Text(); ok && desc != "" {
		q.Description = desc
	}

	if qType == TypeFileUpload {
		q.Skipped = true
		q.SkipReason = fileUploadSkipReason
		return nil, q
	}

	switch qType {
	case TypeMultipleChoice, TypeCheckbox, TypeDropdown:
		q.Options = parseOptions(first.Index(idxEntryOptions))
	case TypeLinearScale:
		parseScale(q, first)
	case TypeMultipleChoiceGrid, TypeCheckboxGrid:
		parseGrid(q, entryData)
	}

	q.Validation = decodeValidation(validationSlot(qType, first))
	return q, nil
}

func isRequired(entry Node) bool {
	flag, ok := entry.Index(idxEntryRequired).Int()
	return ok && flag == 1
}

// validationSlot locates the rule container: grids reuse the required-flag
// position, everything else carries rules one slot later.
func validationSlot(qType QuestionType, entry Node) Node {
	if qType == TypeMultipleChoiceGrid || qType == TypeCheckboxGrid {
		return entry.Index(idxEntryRequired)
	}
	return entry.Index(idxEntryRules)
}

func parseOptions(list Node) []QuestionOption {
	if !list.IsList() {
		return nil
	}
	opts := make([]QuestionOption, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		val := list.Index(i).Index(0).Stringify()
		opts = append(opts, QuestionOption{Value: val, Label: val})
	}
	return opts
}

func parseScale(q *ParsedQuestion, entry Node) {
	values := entry.Index(idxEntryOptions)
	if !values.IsList() || values.Len() == 0 {
		return
	}
	scale := &ScaleSpec{}
	for i := 0; i < values.Len(); i++ {
		v, ok := values.Index(i).Index(0).Int()
		if !ok {
			continue
		}
		n := int(v)
		if i == 0 || n < scale.Min {
			scale.Min = n
		}
		if i == 0 || n > scale.Max {
			scale.Max = n
		}
		q.Options = append(q.Options, QuestionOption{
			Value: values.Index(i).Index(0).Stringify(),
			Label: values.Index(i).Index(0).Stringify(),
		})
	}
	labels := entry.Index(idxEntryLabels)
	scale.MinLabel, _ = labels.Index(0).Text()
	scale.MaxLabel, _ = labels.Index(1).Text()
	q.Scale = scale
}

// parseGrid reads one row per entry-data element and takes columns from the
// first row's option list.
func parseGrid(q *ParsedQuestion, entryData Node) {
	grid := &GridSpec{}
	for i := 0; i < entryData.Len(); i++ {
		row := entryData.Index(i)
		if !row.IsList() {
			continue
		}
		label, ok := row.Index(idxEntryLabels).Index(0).Text()
		if !ok || label == "" {
			label = fmt.Sprintf("Row %d", len(grid.Rows)+1)
		}
		grid.Rows = append(grid.Rows, label)

		if len(grid.Columns) == 0 {
			cols := row.Index(idxEntryOptions)
			for j := 0; j < cols.Len(); j++ {
				grid.Columns = append(grid.Columns, cols.Index(j).Index(0).Stringify())
			}
		}
	}
	q.Grid = grid
	for _, col := range grid.Columns {
		q.Options = append(q.Options, QuestionOption{Value: col, Label: col})
	}
}
