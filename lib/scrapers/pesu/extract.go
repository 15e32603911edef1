package pesu

import (
	"bytes"
	"regexp"
	"slices"
	"strconv"

	"pesuslides/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// MenuOption is one selectable <option> entry. Values are opaque
// server-assigned identifiers.
type MenuOption struct {
	Value string
	Label string
}

// TableRow is a generic table extraction result. ActionID is the
// server-side identifier pulled out of an inline handler call embedded in
// the row markup; it is empty when no call matched.
type TableRow struct {
	Cells    []string
	ActionID string
}

// Unit is one course unit tab. Number is 0 and UnitID "" when the
// respective pattern did not match.
type Unit struct {
	Number int
	Title  string
	UnitID string
}

// ClassArgs is the five-argument tuple of a class row's inline handler
// call. All fields are empty when no call matched, which downstream code
// must treat as "no documents resolvable".
type ClassArgs struct {
	UUID         string
	CourseID     string
	UnitID       string
	ClassNo      string
	ResourceType string
}

// ClassEntry is one class session row.
type ClassEntry struct {
	Title          string
	ResourceCounts []string
	Args           ClassArgs
}

// the portal has shipped both spellings of the subject row handler over
// time, keep matching both
var courseActionRegex = regexp.MustCompile(`(?i)(clickoncoursecontent|clickOnCourseContent)\s*\(\s*'?\s*(\d+)\s*'?`)

var unitNumberRegex = regexp.MustCompile(`(?i)Unit\s*(\d+)`)
var unitHandlerRegex = regexp.MustCompile(`(?i)handleclassUnit\s*\(\s*'?(\d+)'?\s*\)`)
var unitHrefRegex = regexp.MustCompile(`courseUnit_(\d+)`)

var classHandlerRegex = regexp.MustCompile(`(?i)handleclasscoursecontentunit\s*\(\s*'([^']+)'\s*,\s*'?(\d+)'?\s*,\s*'?(\d+)'?\s*,\s*'?(\d+)'?\s*,\s*'?(\d+)'?`)
var digitRunRegex = regexp.MustCompile(`(\d+)`)

var docInvokeRegex = regexp.MustCompile(`(?i)downloadcoursedoc\s*\(\s*['"]([a-f0-9\-]{6,})['"]`)
var docHrefRegex = regexp.MustCompile(`(?i)href=['"][^'"]*download(?:slide)?coursedoc/([a-f0-9\-]{6,})`)

// ParseSemesterOptions extracts every <option> with a non-empty value.
func ParseSemesterOptions(body []byte) []MenuOption {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var options []MenuOption
	doc.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value := opt.AttrOr("value", "")
		if value == "" {
			return
		}
		options = append(options, MenuOption{
			Value: value,
			Label: htmlutil.Text(opt),
		})
	})
	return options
}

// ParseSubjectTable extracts the subject listing table. A missing table
// yields empty results.
func ParseSubjectTable(body []byte) ([]string, []TableRow) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil
	}

	container := doc.Find("#getStudentSubjectsBasedOnSemesters")
	if container.Length() == 0 {
		container = doc.Selection
	}
	table := container.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.Text(th))
	})

	var rows []TableRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		var cells []string
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, htmlutil.Text(td))
		})

		actionId := ""
		rowHtml, err := goquery.OuterHtml(tr)
		if err == nil {
			if m := courseActionRegex.FindStringSubmatch(rowHtml); m != nil {
				actionId = m[2]
			}
		}

		rows = append(rows, TableRow{Cells: cells, ActionID: actionId})
	})
	return headers, rows
}

// ParseUnitTabs extracts the unit tab anchors of a course page. The unit
// id is taken from the inline handler argument when present, falling back
// to the href fragment id. No cap is applied here; the four-unit
// curriculum policy belongs to the caller.
func ParseUnitTabs(body []byte) []Unit {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	list := doc.Find("#courselistunit")
	if list.Length() == 0 {
		return nil
	}

	var units []Unit
	list.Find("a").Each(func(_ int, a *goquery.Selection) {
		title := htmlutil.Text(a)

		number := 0
		if m := unitNumberRegex.FindStringSubmatch(title); m != nil {
			number, _ = strconv.Atoi(m[1])
		}

		unitId := ""
		if onclick, ok := a.Attr("onclick"); ok {
			if m := unitHandlerRegex.FindStringSubmatch(onclick); m != nil {
				unitId = m[1]
			}
		}
		if unitId == "" {
			if m := unitHrefRegex.FindStringSubmatch(a.AttrOr("href", "")); m != nil {
				unitId = m[1]
			}
		}

		units = append(units, Unit{Number: number, Title: title, UnitID: unitId})
	})
	return units
}

// ParseClassTable extracts the class session listing of a unit. The
// five-argument handler call is searched on the row, the title cell and
// the title cell's anchors, in that order. Resource-count cells fall back
// to their raw text when no digit run is found, then to "-".
func ParseClassTable(body []byte) ([]string, []ClassEntry) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var headers []string
	headerScope := table
	if thead := table.Find("thead"); thead.Length() > 0 {
		headerScope = thead
	}
	headerScope.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.Text(th))
	})

	rowScope := table
	if tbody := table.Find("tbody"); tbody.Length() > 0 {
		rowScope = tbody
	}

	var entries []ClassEntry
	rowScope.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		first := tds.First()
		entry := ClassEntry{
			Title: htmlutil.Text(first),
			Args:  classArgsFromRow(tr, first),
		}

		tds.Slice(1, tds.Length()).Each(func(_ int, td *goquery.Selection) {
			text := htmlutil.Text(td)
			if a := td.Find("a"); a.Length() > 0 {
				text = htmlutil.Text(a.First())
			}
			count := text
			if m := digitRunRegex.FindStringSubmatch(text); m != nil {
				count = m[1]
			} else if count == "" {
				count = "-"
			}
			entry.ResourceCounts = append(entry.ResourceCounts, count)
		})

		entries = append(entries, entry)
	})
	return headers, entries
}

func classArgsFromRow(tr, titleCell *goquery.Selection) ClassArgs {
	candidates := []*goquery.Selection{tr, titleCell}
	titleCell.Find("a").Each(func(_ int, a *goquery.Selection) {
		candidates = append(candidates, a)
	})

	for _, sel := range candidates {
		onclick, ok := sel.Attr("onclick")
		if !ok {
			continue
		}
		m := classHandlerRegex.FindStringSubmatch(onclick)
		if m == nil {
			continue
		}
		return ClassArgs{
			UUID:         m[1],
			CourseID:     m[2],
			UnitID:       m[3],
			ClassNo:      m[4],
			ResourceType: m[5],
		}
	}
	return ClassArgs{}
}

// extractDocumentIds collects every identifier matched by `pattern` into a
// deduplicated, sorted slice. The same identifier routinely appears more
// than once in the markup.
func extractDocumentIds(body []byte, pattern *regexp.Regexp) []string {
	matches := pattern.FindAllSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var ids []string
	for _, m := range matches {
		id := string(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
