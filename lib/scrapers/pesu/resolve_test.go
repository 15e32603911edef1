package pesu

import (
	"context"
	"testing"

	"pesuslides/lib/telemetry"

	"github.com/stretchr/testify/require"
)

var fullClassArgs = ClassArgs{
	UUID:         "abc-123",
	CourseID:     "55",
	UnitID:       "9",
	ClassNo:      "3",
	ResourceType: "2",
}

func TestResolveDocumentsPrimary(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)
	// the same identifier shows up twice in real preview markup
	portal.responses["60"] = `
		<a onclick="downloadcoursedoc('aaaa-1111')">slides</a>
		<a onclick="downloadcoursedoc('aaaa-1111')">slides (again)</a>`
	portal.responses["343"] = `<a onclick="downloadcoursedoc('zzzz-should-not-be-used')"></a>`

	client := newTestClient(t, portal.server.URL)
	ids, body, err := client.ResolveDocuments(context.Background(), ClassEntry{Args: fullClassArgs})
	require.NoError(t, err)
	require.Equal(t, []string{"aaaa-1111"}, ids)
	require.NotEmpty(t, body)

	// a primary match must short-circuit the secondary lookup
	require.Contains(t, portal.requests, "60")
	require.NotContains(t, portal.requests, "343")
}

func TestResolveDocumentsFallback(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)
	portal.responses["60"] = `<div>no documents here</div>`
	portal.responses["343"] = `<a href="/Academy/a/referenceMeterials/downloadslidecoursedoc/bbbb-2222">slides</a>`

	client := newTestClient(t, portal.server.URL)
	ids, _, err := client.ResolveDocuments(context.Background(), ClassEntry{Args: fullClassArgs})
	require.NoError(t, err)
	require.Equal(t, []string{"bbbb-2222"}, ids)

	primary := portal.requests["60"]
	require.Equal(t, "55", primary.Get("selectedData"))
	require.Equal(t, "abc-123", primary.Get("unitid"))

	fallback := portal.requests["343"]
	require.Equal(t, "abc-123", fallback.Get("courseunitid"))
	require.Equal(t, "55", fallback.Get("subjectid"))
	require.Equal(t, "9", fallback.Get("coursecontentid"))
	require.Equal(t, "3", fallback.Get("classNo"))
	require.Equal(t, "2", fallback.Get("type"))
}

func TestResolveDocumentsFallbackDefaultType(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)
	args := fullClassArgs
	args.ResourceType = ""

	client := newTestClient(t, portal.server.URL)
	_, _, err := client.ResolveDocuments(context.Background(), ClassEntry{Args: args})
	require.NoError(t, err)
	require.Equal(t, "2", portal.requests["343"].Get("type"))
}

func TestResolveDocumentsNoMatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)
	portal.responses["60"] = `<div>empty</div>`
	portal.responses["343"] = `<div>still empty</div>`

	client := newTestClient(t, portal.server.URL)
	ids, body, err := client.ResolveDocuments(context.Background(), ClassEntry{Args: fullClassArgs})
	require.NoError(t, err)
	require.Empty(t, ids)
	require.Contains(t, string(body), "still empty")
}

func TestResolveDocumentsSkipsFallbackWithoutClassNo(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)

	client := newTestClient(t, portal.server.URL)
	args := ClassArgs{UUID: "abc-123", CourseID: "55"}
	ids, _, err := client.ResolveDocuments(context.Background(), ClassEntry{Args: args})
	require.NoError(t, err)
	require.Empty(t, ids)
	require.Contains(t, portal.requests, "60")
	require.NotContains(t, portal.requests, "343")
}

func TestResolveDocumentsMissingIdentifiers(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	portal := newFakePortal(t)

	client := newTestClient(t, portal.server.URL)
	_, _, err := client.ResolveDocuments(context.Background(), ClassEntry{Title: "Guest Lecture"})
	require.ErrorIs(t, err, MissingIdentifiers)
	require.Empty(t, portal.requests)
}
