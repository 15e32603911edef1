// Package pesu implements the authenticated navigation pipeline against
// the PESU Academy student portal. The portal has no public API: every
// method replays the requests the web frontend would make and decodes the
// returned HTML fragments. Extraction is best-effort throughout; a page
// without the expected markup yields an empty result, not an error.
package pesu

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pesuslides/lib/htmlutil"
	"pesuslides/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://www.pesuacademy.com"

const (
	rootPath      = "/Academy/"
	loginPath     = "/Academy/j_spring_security_check"
	profilePath   = "/Academy/s/studentProfilePESU"
	semestersPath = "/Academy/a/studentProfilePESU/getStudentSemestersPESU"
	adminPath     = "/Academy/s/studentProfilePESUAdmin"
	downloadPath  = "/Academy/a/referenceMeterials/downloadslidecoursedoc/"
)

var LoginFailed = fmt.Errorf("Failed to login to your account.")
var TokenNotFound = fmt.Errorf("could not find csrf token")
var MissingIdentifiers = fmt.Errorf("class entry is missing the identifiers needed to resolve documents")

// Client is an authenticated portal session: a cookie jar shared by every
// request plus the most recently fetched csrf token. It is not safe for
// concurrent use; the portal rotates tokens per page render, so a
// refresh-then-use pair must never interleave with another.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	csrf string
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

func (c *Client) profileUrl() string {
	return c.BaseUrl.String() + profilePath
}

// Login performs the csrf handshake and credential post. The portal never
// signals failure through status codes; the only success criterion is that
// the redirect chain lands on the authenticated profile page.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(rootPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch portal root")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse portal root html")
		return err
	}

	token := htmlutil.MetaContent(doc, "csrf-token")
	if token == "" {
		span.SetStatus(codes.Error, TokenNotFound.Error())
		return TokenNotFound
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetHeader("X-CSRF-Token", token).
		SetHeader("Referer", c.BaseUrl.String()+rootPath).
		SetFormData(map[string]string{
			"j_username": username,
			"j_password": password,
		}).
		Post(loginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}
	if !strings.HasSuffix(finalUrl, profilePath) {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	c.csrf = token
	return nil
}

// RefreshToken fetches the profile page and stores the csrf token embedded
// in it. The portal rotates tokens per page load, so this runs before
// every endpoint that validates one. Visiting the profile page also
// rotates session cookies through the shared jar.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "client:RefreshToken")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(profilePath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse profile html")
		return "", err
	}

	token := htmlutil.MetaContent(doc, "csrf-token")
	if token == "" {
		span.SetStatus(codes.Error, TokenNotFound.Error())
		return "", TokenNotFound
	}

	c.csrf = token
	return token, nil
}

func millisTimestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
