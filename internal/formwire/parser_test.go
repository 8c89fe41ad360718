package formwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture helpers

func textEntry(entryID int, required int) Node {
	return List(Num(float64(entryID)), NullNode(), NullNode(), NullNode(), Num(float64(required)))
}

func choiceEntry(entryID int, required int, options ...string) Node {
	opts := make([]Node, len(options))
	for i, o := range options {
		opts[i] = List(Str(o))
	}
	return List(Num(float64(entryID)), List(opts...), NullNode(), NullNode(), Num(float64(required)))
}

func scaleEntry(entryID, min, max int, minLabel, maxLabel string) Node {
	values := make([]Node, 0, max-min+1)
	for v := min; v <= max; v++ {
		values = append(values, List(Num(float64(v))))
	}
	return List(Num(float64(entryID)), List(values...), NullNode(), List(Str(minLabel), Str(maxLabel)), Num(0))
}

func gridRow(entryID int, label string, columns ...string) Node {
	cols := make([]Node, len(columns))
	for i, c := range columns {
		cols[i] = List(Str(c))
	}
	return List(Num(float64(entryID)), List(cols...), NullNode(), List(Str(label)))
}

func question(id int, title string, typeCode int, entries ...Node) Node {
	return List(Num(float64(id)), Str(title), NullNode(), Num(float64(typeCode)), List(entries...))
}

func sectionBreak(title string) Node {
	item := make([]Node, 12)
	for i := range item {
		item[i] = NullNode()
	}
	item[idxItemTitle] = Str(title)
	item[idxItemNavigation] = List(Num(1))
	return List(item...)
}

func formBlob(items ...Node) Node {
	info := make([]Node, 15)
	for i := range info {
		info[i] = NullNode()
	}
	info[idxFormDescription] = Str("A survey about things")
	info[idxFormItems] = List(items...)
	info[idxFormTitle] = Str("Test Survey")
	info[idxFormID] = Str("1FAIpQLtestform")
	return List(NullNode(), List(info...))
}

func TestParseFormAllSupportedTypes(t *testing.T) {
	blob := formBlob(
		question(101, "Your name", 0, textEntry(1001, 1)),
		question(102, "Tell us more", 1, textEntry(1002, 0)),
		question(103, "Favorite color", 2, choiceEntry(1003, 1, "Red", "Green", "Blue")),
		question(104, "Pick a country", 3, choiceEntry(1004, 0, "India", "Brazil")),
		question(105, "Select hobbies", 4, choiceEntry(1005, 0, "Reading", "Hiking", "Chess")),
		question(106, "Rate us", 5, scaleEntry(1006, 1, 5, "Poor", "Great")),
		question(107, "Rate each feature", 7,
			gridRow(1007, "Speed", "Bad", "OK", "Good"),
			gridRow(1008, "Design", "Bad", "OK", "Good"),
		),
		question(108, "Check all that apply", 8,
			gridRow(1009, "Morning", "Yes", "No"),
		),
		question(109, "Pick a date", 9, textEntry(1010, 0)),
		question(110, "Pick a time", 10, textEntry(1011, 0)),
	)

	form, err := ParseForm(blob)
	require.NoError(t, err)

	require.Len(t, form.Questions, 10)
	assert.Empty(t, form.SkippedQuestions)
	assert.Equal(t, "1FAIpQLtestform", form.FormID)
	assert.Equal(t, "Test Survey", form.Title)
	assert.Equal(t, "A survey about things", form.Description)
	assert.Equal(t, []int{0}, form.PageHistory)

	wantTypes := []QuestionType{
		TypeShortText, TypeParagraph, TypeMultipleChoice, TypeDropdown,
		TypeCheckbox, TypeLinearScale, TypeMultipleChoiceGrid,
		TypeCheckboxGrid, TypeDate, TypeTime,
	}
	seen := map[string]bool{}
	for i, q := range form.Questions {
		assert.Equal(t, wantTypes[i], q.Type, "question %d", i)
		assert.False(t, seen[q.ID], "duplicate question id %s", q.ID)
		seen[q.ID] = true
	}

	name := form.Questions[0]
	assert.Equal(t, "entry.1001", name.EntryID)
	assert.True(t, name.Required)

	color := form.Questions[2]
	require.Len(t, color.Options, 3)
	assert.Equal(t, "Red", color.Options[0].Value)

	scale := form.Questions[5]
	require.NotNil(t, scale.Scale)
	assert.Equal(t, 1, scale.Scale.Min)
	assert.Equal(t, 5, scale.Scale.Max)
	assert.Equal(t, "Poor", scale.Scale.MinLabel)
	assert.Equal(t, "Great", scale.Scale.MaxLabel)
	require.Len(t, scale.Options, 5)
	assert.Equal(t, "1", scale.Options[0].Value)
	assert.Equal(t, "5", scale.Options[4].Value)

	grid := form.Questions[6]
	require.NotNil(t, grid.Grid)
	assert.Equal(t, []string{"Speed", "Design"}, grid.Grid.Rows)
	assert.Equal(t, []string{"Bad", "OK", "Good"}, grid.Grid.Columns)
	require.Len(t, grid.Options, 3)
}

func TestParseFormFileUploadIsSkipped(t *testing.T) {
	blob := formBlob(
		question(201, "Your name", 0, textEntry(2001, 1)),
		question(202, "Upload your resume", 13, textEntry(2002, 1)),
	)

	form, err := ParseForm(blob)
	require.NoError(t, err)

	require.Len(t, form.Questions, 1)
	require.Len(t, form.SkippedQuestions, 1)
	skipped := form.SkippedQuestions[0]
	assert.Equal(t, TypeFileUpload, skipped.Type)
	assert.True(t, skipped.Skipped)
	assert.Equal(t, fileUploadSkipReason, skipped.SkipReason)
	assert.True(t, form.HasFileUpload)
}

func TestParseFormUnknownTypeCode(t *testing.T) {
	blob := formBlob(question(301, "Mystery", 42, textEntry(3001, 0)))

	form, err := ParseForm(blob)
	require.NoError(t, err)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, TypeUnknown, form.Questions[0].Type)
}

func TestParseFormSectionBreaksAdvancePageHistory(t *testing.T) {
	blob := formBlob(
		question(401, "Q1", 0, textEntry(4001, 0)),
		sectionBreak("Page 2"),
		question(402, "Q2", 0, textEntry(4002, 0)),
		sectionBreak("Page 3"),
		sectionBreak("Page 4"),
		question(403, "Q3", 0, textEntry(4003, 0)),
	)

	form, err := ParseForm(blob)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, form.PageHistory)
	assert.Len(t, form.Questions, 3)
}

func TestParseFormNestedPageItemsAreFlattened(t *testing.T) {
	// A page container carries question items one level deeper at the
	// entry-data index and no entry id of its own.
	page := List(Num(500), Str("Page container"), NullNode(), Num(0), List(
		question(501, "Nested A", 0, textEntry(5001, 0)),
		question(502, "Nested B", 2, choiceEntry(5002, 0, "Yes", "No")),
	))
	blob := formBlob(page)

	form, err := ParseForm(blob)
	require.NoError(t, err)
	require.Len(t, form.Questions, 2)
	assert.Equal(t, "Nested A", form.Questions[0].Title)
	assert.Equal(t, TypeMultipleChoice, form.Questions[1].Type)
}

func TestParseFormDropsMalformedItems(t *testing.T) {
	blob := formBlob(
		Str("not an item"),
		List(Num(601), Str("No entry data"), NullNode(), Num(0)),
		List(Num(602), Str("Empty entry data"), NullNode(), Num(0), List()),
		question(603, "Survivor", 0, textEntry(6001, 0)),
	)

	form, err := ParseForm(blob)
	require.NoError(t, err)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, "Survivor", form.Questions[0].Title)
}

func TestParseFormMalformedContainerFails(t *testing.T) {
	_, err := ParseForm(Str("junk"))
	assert.ErrorIs(t, err, ErrNoForm)

	_, err = ParseForm(List(NullNode(), Str("not a container")))
	assert.ErrorIs(t, err, ErrNoForm)

	_, err = ParseForm(List(NullNode(), List(NullNode(), Str("items not a list"))))
	assert.ErrorIs(t, err, ErrNoForm)
}

func TestParseFormUntitledFallbacks(t *testing.T) {
	info := make([]Node, 15)
	for i := range info {
		info[i] = NullNode()
	}
	info[idxFormItems] = List(
		List(Num(701), NullNode(), NullNode(), Num(0), List(textEntry(7001, 0))),
	)
	form, err := ParseForm(List(NullNode(), List(info...)))
	require.NoError(t, err)
	assert.Equal(t, "Untitled Form", form.Title)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, "Untitled Question", form.Questions[0].Title)
}

func TestDecodeBlobRoundTrip(t *testing.T) {
	raw := []byte(`[null,[null,[[123,"Q",null,0,[[456,null,null,null,1]]]],null,null,null,null,null,"Blob Form",null,null,null,null,null,"formid123"]]`)
	root, err := DecodeBlob(raw)
	require.NoError(t, err)

	form, err := ParseForm(root)
	require.NoError(t, err)
	assert.Equal(t, "formid123", form.FormID)
	assert.Equal(t, "Blob Form", form.Title)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, "entry.456", form.Questions[0].EntryID)
	assert.True(t, form.Questions[0].Required)
}
