package pesu

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// SubjectTable is the subject listing of one semester. Raw carries the
// response body so callers can surface a snippet when nothing parsed.
type SubjectTable struct {
	Headers []string
	Rows    []TableRow
	Raw     []byte
}

// ClassTable is the class session listing of one unit.
type ClassTable struct {
	Headers []string
	Entries []ClassEntry
	Raw     []byte
}

// Semesters lists the selectable semesters. The profile page is visited
// first to settle session cookies, matching the frontend's request order.
func (c *Client) Semesters(ctx context.Context) ([]MenuOption, error) {
	ctx, span := tracer.Start(ctx, "client:Semesters")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get(profilePath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", c.profileUrl()).
		Get(semestersPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch semesters")
		return nil, err
	}

	options := ParseSemesterOptions(res.Body())
	span.SetAttributes(attribute.Int("count", len(options)))
	return options, nil
}

// Subjects lists the subjects of a semester. The semester id is reduced to
// its digits before posting; the portal rejects the raw option value.
func (c *Client) Subjects(ctx context.Context, semesterId string) (SubjectTable, error) {
	ctx, span := tracer.Start(ctx, "client:Subjects")
	defer span.End()

	token, err := c.RefreshToken(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh token")
		return SubjectTable{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", c.profileUrl()).
		SetHeader("X-CSRF-Token", token).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormData(map[string]string{
			"controllerMode": "6403",
			"actionType":     "38",
			"id":             nonDigits.ReplaceAllString(semesterId, ""),
			"menuId":         "653",
			"_csrf":          token,
		}).
		Post(adminPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch subjects")
		return SubjectTable{}, err
	}

	headers, rows := ParseSubjectTable(res.Body())
	span.SetAttributes(attribute.Int("count", len(rows)))
	return SubjectTable{Headers: headers, Rows: rows, Raw: res.Body()}, nil
}

// Units lists the unit tabs of a course. At most four units are meaningful
// per the curriculum; truncation is left to the caller as a policy choice.
func (c *Client) Units(ctx context.Context, courseId string) ([]Unit, []byte, error) {
	ctx, span := tracer.Start(ctx, "client:Units")
	defer span.End()

	token, err := c.RefreshToken(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh token")
		return nil, nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", c.profileUrl()).
		SetHeader("X-CSRF-Token", token).
		SetHeader("Accept", "text/html, */*; q=0.01").
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetQueryParams(map[string]string{
			"controllerMode": "6403",
			"actionType":     "42",
			"id":             courseId,
			"menuId":         "653",
			"_csrf":          token,
		}).
		Get(adminPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch course content")
		return nil, nil, err
	}

	units := ParseUnitTabs(res.Body())
	span.SetAttributes(attribute.Int("count", len(units)))
	return units, res.Body(), nil
}

// ClassSessions lists the class sessions of a unit, with per-class
// resource counts and the identifier tuple needed for document resolution.
func (c *Client) ClassSessions(ctx context.Context, unitId string) (ClassTable, error) {
	ctx, span := tracer.Start(ctx, "client:ClassSessions")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", c.profileUrl()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetQueryParams(map[string]string{
			"controllerMode":  "6403",
			"actionType":      "43",
			"coursecontentid": unitId,
			"menuId":          "653",
			"subType":         "3",
			"_":               millisTimestamp(),
		}).
		Get(adminPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch unit classes")
		return ClassTable{}, err
	}

	headers, entries := ParseClassTable(res.Body())
	span.SetAttributes(attribute.Int("count", len(entries)))
	return ClassTable{Headers: headers, Entries: entries, Raw: res.Body()}, nil
}
