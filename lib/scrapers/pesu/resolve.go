package pesu

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// resolveTier is one document-lookup strategy: a precondition on the
// available identifiers, the query it builds, and the patterns scanned
// against the response. Tiers are tried in order, first match wins.
type resolveTier struct {
	name     string
	applies  func(ClassArgs) bool
	query    func(args ClassArgs, timestamp string) map[string]string
	patterns []*regexp.Regexp
}

var resolveTiers = []resolveTier{
	{
		name:    "course content preview",
		applies: func(ClassArgs) bool { return true },
		query: func(a ClassArgs, timestamp string) map[string]string {
			return map[string]string{
				"controllerMode": "6403",
				"actionType":     "60",
				"selectedData":   a.CourseID,
				"id":             "2",
				"unitid":         a.UUID,
				"menuId":         "653",
				"_":              timestamp,
			}
		},
		patterns: []*regexp.Regexp{docInvokeRegex},
	},
	{
		name: "unit class listing",
		applies: func(a ClassArgs) bool {
			return a.UnitID != "" && a.ClassNo != ""
		},
		query: func(a ClassArgs, timestamp string) map[string]string {
			resourceType := a.ResourceType
			if resourceType == "" {
				resourceType = "2"
			}
			return map[string]string{
				"controllerMode":  "9978",
				"actionType":      "343",
				"courseunitid":    a.UUID,
				"subjectid":       a.CourseID,
				"coursecontentid": a.UnitID,
				"classNo":         a.ClassNo,
				"type":            resourceType,
				"menuId":          "653",
				"selectedData":    "0",
				"_":               timestamp,
			}
		},
		patterns: []*regexp.Regexp{docInvokeRegex, docHrefRegex},
	},
}

// ResolveDocuments looks up the downloadable document identifiers of a
// class entry. Entries without a uuid and course id cannot be resolved at
// all and return MissingIdentifiers without a network call. The returned
// body is the last page fetched, for diagnostics; an empty identifier set
// with a nil error is a valid outcome.
func (c *Client) ResolveDocuments(ctx context.Context, entry ClassEntry) ([]string, []byte, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveDocuments")
	defer span.End()

	args := entry.Args
	if args.UUID == "" || args.CourseID == "" {
		span.SetStatus(codes.Error, MissingIdentifiers.Error())
		return nil, nil, MissingIdentifiers
	}

	token, err := c.RefreshToken(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh token")
		return nil, nil, err
	}

	var lastBody []byte
	for _, tier := range resolveTiers {
		if !tier.applies(args) {
			continue
		}

		res, err := c.Http.R().
			SetContext(ctx).
			SetHeader("Referer", c.profileUrl()).
			SetHeader("X-Requested-With", "XMLHttpRequest").
			SetHeader("X-CSRF-Token", token).
			SetQueryParams(tier.query(args, millisTimestamp())).
			Get(adminPath)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch "+tier.name)
			return nil, lastBody, err
		}
		lastBody = res.Body()

		for _, pattern := range tier.patterns {
			ids := extractDocumentIds(lastBody, pattern)
			if len(ids) > 0 {
				span.SetAttributes(
					attribute.String("tier", tier.name),
					attribute.Int("count", len(ids)),
				)
				return ids, lastBody, nil
			}
		}
	}

	span.SetAttributes(attribute.Int("count", 0))
	return nil, lastBody, nil
}
