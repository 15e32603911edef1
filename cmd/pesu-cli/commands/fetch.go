package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pesuslides/cmd/pesu-cli/utils"
	"pesuslides/internal/db"
	"pesuslides/lib/configutil"
	"pesuslides/lib/scrapers/pesu"
	"pesuslides/lib/selection"
	"pesuslides/lib/sqliteutil"
	"pesuslides/lib/textutil"
	"pesuslides/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// the curriculum assigns at most four meaningful units per course; tabs
// beyond that are placeholders
const maxUnits = 4

var fetchOut *string
var fetchDb *string

func init() {
	fetchOut = fetchCmd.Flags().String("out", "", "Directory to write slides to (prompted when empty).")
	fetchDb = fetchCmd.Flags().String("db", "downloads.db", "The manifest database recording saved files.")
	rootCmd.AddCommand(fetchCmd)
}

func credentials() (string, string) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err == nil && cfg.Username != "" && cfg.Password != "" {
		slog.Info("using stored credentials", "username", cfg.Username)
		return cfg.Username, cfg.Password
	}

	username := utils.PromptLine("SRN/PRN: ")
	password := utils.PromptLine("Password: ")
	return username, password
}

// htmlSnippet truncates a page body for terminal diagnostics.
func htmlSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 500 {
		s = s[:500] + "..."
	}
	return s
}

func pickSemester(ctx context.Context, client *pesu.Client) pesu.MenuOption {
	semesters, err := client.Semesters(ctx)
	if err != nil {
		serviceutil.Fatal("failed to fetch semesters", err)
	}
	if len(semesters) == 0 {
		serviceutil.Fatal("no semesters found", errors.New("the portal returned an empty semester menu"))
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"SI No.", "Semester"})
	for i, sem := range semesters {
		t.AppendRow(table.Row{i + 1, sem.Label})
	}
	t.Render()

	choice := utils.PromptInt("Semester: ", 1, len(semesters))
	return semesters[choice-1]
}

func pickSubject(ctx context.Context, client *pesu.Client, semesterId string) pesu.TableRow {
	subjects, err := client.Subjects(ctx, semesterId)
	if err != nil {
		serviceutil.Fatal("failed to fetch subjects", err)
	}
	if len(subjects.Rows) == 0 {
		slog.Debug("subject page snippet", "html", htmlSnippet(subjects.Raw))
		serviceutil.Fatal("no subjects found", errors.New("the portal returned an empty subject table"))
	}

	t := utils.NewTable()
	header := table.Row{"SI No."}
	for _, h := range subjects.Headers {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for i, row := range subjects.Rows {
		tableRow := table.Row{i + 1}
		for _, cell := range row.Cells {
			tableRow = append(tableRow, cell)
		}
		t.AppendRow(tableRow)
	}
	t.Render()

	choice := utils.PromptInt("Subject: ", 1, len(subjects.Rows))
	picked := subjects.Rows[choice-1]
	if picked.ActionID == "" {
		serviceutil.Fatal(
			"cannot open subject",
			errors.New("no course id could be extracted from the chosen row"),
		)
	}
	return picked
}

func pickUnit(ctx context.Context, client *pesu.Client, courseId string) pesu.Unit {
	units, raw, err := client.Units(ctx, courseId)
	if err != nil {
		serviceutil.Fatal("failed to fetch course units", err)
	}
	if len(units) > maxUnits {
		units = units[:maxUnits]
	}
	if len(units) == 0 {
		slog.Debug("course page snippet", "html", htmlSnippet(raw))
		serviceutil.Fatal("no units found", errors.New("the portal returned no unit tabs"))
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"SI No.", "Unit"})
	for i, unit := range units {
		t.AppendRow(table.Row{i + 1, unit.Title})
	}
	t.Render()

	choice := utils.PromptInt("Unit: ", 1, len(units))
	picked := units[choice-1]
	if picked.UnitID == "" {
		serviceutil.Fatal(
			"cannot open unit",
			errors.New("no unit id could be extracted from the chosen tab"),
		)
	}
	return picked
}

// slidesCount picks the per-class slide count out of the resource-count
// cells. The header row includes the class name column while the counts do
// not, hence the off-by-one. Without a usable slides header the third
// count column is what the portal renders slides in.
func slidesCount(headers, counts []string) string {
	idx := 2
	for i, h := range headers {
		if textutil.MatchName(h, []string{"slides"}) {
			if i-1 >= 0 && i-1 < len(counts) {
				idx = i - 1
			}
			break
		}
	}
	if idx < len(counts) {
		return counts[idx]
	}
	return "-"
}

func pickClasses(ctx context.Context, client *pesu.Client, unitId string) ([]int, []pesu.ClassEntry) {
	classes, err := client.ClassSessions(ctx, unitId)
	if err != nil {
		serviceutil.Fatal("failed to fetch unit classes", err)
	}
	if len(classes.Entries) == 0 {
		slog.Debug("unit page snippet", "html", htmlSnippet(classes.Raw))
		serviceutil.Fatal("no classes found", errors.New("the portal returned an empty class table"))
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"SI No.", "Name", "Slides"})
	for i, entry := range classes.Entries {
		siNo := entry.Args.ClassNo
		if siNo == "" {
			siNo = fmt.Sprint(i + 1)
		}
		t.AppendRow(table.Row{
			siNo,
			entry.Title,
			slidesCount(classes.Headers, entry.ResourceCounts),
		})
	}
	t.Render()

	expr := utils.PromptLine("Classes to fetch (e.g. 2-5, blank for all): ")
	picked := selection.Parse(expr, len(classes.Entries))
	if len(picked) == 0 {
		serviceutil.Fatal("nothing to fetch", fmt.Errorf("%q selects no classes", expr))
	}
	return picked, classes.Entries
}

func fetchClass(
	ctx context.Context,
	client *pesu.Client,
	qry *db.Queries,
	entry pesu.ClassEntry,
	position int,
	destDir string,
) {
	ids, body, err := client.ResolveDocuments(ctx, entry)
	if errors.Is(err, pesu.MissingIdentifiers) {
		fmt.Printf("No slide documents for class %d.\n", position)
		return
	}
	if err != nil {
		slog.Warn("failed to resolve documents", "class", position, "err", err)
		return
	}
	if len(ids) == 0 {
		slog.Debug("resolution page snippet", "class", position, "html", htmlSnippet(body))
		fmt.Printf("No slide documents for class %d.\n", position)
		return
	}

	title := entry.Title
	if title == "" {
		title = fmt.Sprintf("class_%d", position)
	}

	saved, err := client.DownloadDocuments(ctx, ids, position, title, destDir)
	if err != nil {
		slog.Warn("failed to download documents", "class", position, "err", err)
		return
	}

	for _, doc := range saved {
		err := qry.NoteDownload(ctx, db.NoteDownloadParams{
			DocID:      doc.DocID,
			ClassTitle: title,
			Path:       doc.Path,
			SizeBytes:  doc.Size,
			SavedAt:    time.Now().Unix(),
		})
		if err != nil {
			slog.Warn("failed to record download", "path", doc.Path, "err", err)
		}
		fmt.Printf("Saved: %s\n", doc.Path)
	}
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--out <dir>] [--db <path/to/downloads.db>]",
	Short: "Walks the portal menus and downloads the selected lecture slides.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client, err := pesu.NewClient(ctx, pesu.ClientOptions{})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}

		username, password := credentials()
		err = client.Login(ctx, username, password)
		if err != nil {
			serviceutil.Fatal("failed to login", err)
		}
		slog.Info("logged in", "username", username)

		semester := pickSemester(ctx, client)
		subject := pickSubject(ctx, client, semester.Value)
		unit := pickUnit(ctx, client, subject.ActionID)
		picked, entries := pickClasses(ctx, client, unit.UnitID)

		destDir := *fetchOut
		if destDir == "" {
			destDir = utils.PromptLine("Output directory (blank for ./slides): ")
			if destDir == "" {
				destDir = "slides"
			}
		}

		manifest, err := sqliteutil.OpenDB(db.Schema, *fetchDb)
		if err != nil {
			serviceutil.Fatal("failed to open manifest db", err)
		}
		defer manifest.Close()
		qry := db.New(manifest)

		for _, position := range picked {
			fetchClass(ctx, client, qry, entries[position-1], position, destDir)
		}
	},
}
