package pesu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const semesterOptionsFixture = `
<select id="semester">
	<option value="">Select</option>
	<option value="1001"> Sem-1 </option>
	<option value="1002">Sem-2</option>
</select>`

func TestParseSemesterOptions(t *testing.T) {
	options := ParseSemesterOptions([]byte(semesterOptionsFixture))

	expected := []MenuOption{
		{Value: "1001", Label: "Sem-1"},
		{Value: "1002", Label: "Sem-2"},
	}
	if diff := cmp.Diff(expected, options); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

const subjectTableFixture = `
<div id="getStudentSubjectsBasedOnSemesters">
	<table>
		<tr><th>Code</th><th>Subject</th><th>Faculty</th></tr>
		<tr onclick="clickoncoursecontent('4821', 'x')">
			<td>UE22CS101</td><td> Operating  Systems </td><td>Dr. Rao</td>
		</tr>
		<tr onclick="clickOnCourseContent( '4822' )">
			<td>UE22CS102</td><td>Computer Networks</td><td>Dr. Iyer</td>
		</tr>
		<tr><td>UE22CS103</td><td>Electives</td><td>TBA</td></tr>
	</table>
</div>`

func TestParseSubjectTable(t *testing.T) {
	headers, rows := ParseSubjectTable([]byte(subjectTableFixture))

	require.Equal(t, []string{"Code", "Subject", "Faculty"}, headers)
	require.Len(t, rows, 3)

	require.Equal(t, []string{"UE22CS101", "Operating Systems", "Dr. Rao"}, rows[0].Cells)
	require.Equal(t, "4821", rows[0].ActionID)

	// the alternate handler spelling must match too
	require.Equal(t, "4822", rows[1].ActionID)

	// a row without a handler keeps its cells with an empty action id
	require.Equal(t, "", rows[2].ActionID)
}

func TestParseSubjectTableMissing(t *testing.T) {
	headers, rows := ParseSubjectTable([]byte(`<div>maintenance page</div>`))
	require.Empty(t, headers)
	require.Empty(t, rows)
}

const unitTabsFixture = `
<ul id="courselistunit">
	<li><a onclick="handleclassUnit('901')">Unit 1: Processes</a></li>
	<li><a href="#courseUnit_902">Unit 2: Memory</a></li>
	<li><a href="#overview">Course Overview</a></li>
</ul>`

func TestParseUnitTabs(t *testing.T) {
	units := ParseUnitTabs([]byte(unitTabsFixture))

	expected := []Unit{
		{Number: 1, Title: "Unit 1: Processes", UnitID: "901"},
		{Number: 2, Title: "Unit 2: Memory", UnitID: "902"},
		{Number: 0, Title: "Course Overview", UnitID: ""},
	}
	if diff := cmp.Diff(expected, units); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnitTabsMissing(t *testing.T) {
	require.Empty(t, ParseUnitTabs([]byte(`<ul><li><a>Unit 1</a></li></ul>`)))
}

const classTableFixture = `
<table>
	<thead>
		<tr><th>SI No.</th><th>Notes</th><th>Slides</th></tr>
	</thead>
	<tbody>
		<tr>
			<td><a onclick="handleclasscoursecontentunit('abc-123','55','9','3','2')">Deadlocks</a></td>
			<td><a>2 files</a></td>
			<td>5</td>
		</tr>
		<tr>
			<td>Guest Lecture</td>
			<td>N/A</td>
			<td></td>
		</tr>
	</tbody>
</table>`

func TestParseClassTable(t *testing.T) {
	headers, entries := ParseClassTable([]byte(classTableFixture))

	require.Equal(t, []string{"SI No.", "Notes", "Slides"}, headers)
	require.Len(t, entries, 2)

	require.Equal(t, "Deadlocks", entries[0].Title)
	expected := ClassArgs{
		UUID:         "abc-123",
		CourseID:     "55",
		UnitID:       "9",
		ClassNo:      "3",
		ResourceType: "2",
	}
	require.Equal(t, expected, entries[0].Args)
	require.Equal(t, []string{"2", "5"}, entries[0].ResourceCounts)

	// no handler call leaves every identifier empty
	require.Equal(t, ClassArgs{}, entries[1].Args)
	require.Equal(t, []string{"N/A", "-"}, entries[1].ResourceCounts)
}

func TestParseClassTableMissing(t *testing.T) {
	headers, entries := ParseClassTable([]byte(`<p>nothing scheduled</p>`))
	require.Empty(t, headers)
	require.Empty(t, entries)
}

func TestExtractDocumentIdsDeduplicates(t *testing.T) {
	body := []byte(`
		<a onclick="downloadcoursedoc('aaaa-1111')">Download</a>
		<a onclick="DownloadCourseDoc('aaaa-1111')">Download again</a>
		<a onclick="downloadcoursedoc('bbbb-2222')">Other</a>`)

	ids := extractDocumentIds(body, docInvokeRegex)
	require.Equal(t, []string{"aaaa-1111", "bbbb-2222"}, ids)
}

func TestExtractDocumentIdsHrefFallbackPattern(t *testing.T) {
	body := []byte(`<a href="/Academy/a/referenceMeterials/downloadslidecoursedoc/cccc-3333">slides</a>`)
	require.Equal(t, []string{"cccc-3333"}, extractDocumentIds(body, docHrefRegex))

	// short tokens are not identifiers
	require.Empty(t, extractDocumentIds([]byte(`downloadcoursedoc('ab1')`), docInvokeRegex))
}
