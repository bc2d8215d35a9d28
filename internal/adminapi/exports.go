package adminapi

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/report"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
)

type emailReportPayload struct {
	Recipient string `json:"recipient"`
	// Send requests server-side SMTP delivery in addition to the handoff.
	Send bool `json:"send"`
}

type emailReportResult struct {
	Handoff interface{} `json:"handoff"`
	// Content carries the artifact for the client composer flow, since a
	// mailto URL cannot attach files.
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Sent     bool   `json:"sent"`
}

// registerExportRoutes registers the report generation endpoints
func registerExportRoutes() {
	webserver.ApiGET("/products/:id/report", downloadReport)
	webserver.ApiPOST("/products/:id/report/email", emailReport)
	webserver.ApiGET("/products/:id/report/csv", downloadComponentCSV)
}

// buildReport assembles a fresh artifact for one export action. Every
// call re-reads the records and re-captures the panel snapshot; nothing
// is cached between the download and email paths.
func buildReport(c echo.Context, purpose report.Purpose) (*report.Artifact, *domain.Product, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, nil, errors.New("invalid product ID")
	}
	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	product, err := appCtx.Store().GetProduct(ctx, id)
	if err != nil {
		return nil, nil, errors.New("product not found")
	}
	components, err := appCtx.Store().ComponentTestsByProduct(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load components")
	}
	photos, err := appCtx.Store().PhotosByProduct(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load photos")
	}

	// A failed capture omits the screenshot section rather than failing
	// the export.
	screenshot, _ := appCtx.Renderer().Capture(ctx, id)

	artifact, err := appCtx.ReportBuilder().Build(ctx, *product, components, photos, screenshot, purpose)
	if err != nil {
		return nil, nil, err
	}
	return artifact, product, nil
}

func downloadReport(c echo.Context) error {
	artifact, product, err := buildReport(c, report.PurposeDownload)
	if err != nil {
		return exportError(c, err)
	}

	GetAppContext(c).PublishOprLog("api", clientIP(c), "download_report", product.Name)
	zap.L().Info("report generated",
		zap.String("product", product.Name),
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", len(artifact.Content)))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		artifact.Content)
}

func emailReport(c echo.Context) error {
	var payload emailReportPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}

	appCtx := GetAppContext(c)
	recipient := strings.TrimSpace(payload.Recipient)
	if recipient == "" {
		recipient = appCtx.GetSettingsStringValue("report", "default_recipient")
	}
	if recipient == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Recipient is required", nil)
	}

	artifact, product, err := buildReport(c, report.PurposeEmail)
	if err != nil {
		return exportError(c, err)
	}

	handoff := appCtx.Mailer().BuildHandoff(recipient, product.Name, artifact)

	result := emailReportResult{
		Handoff:  handoff,
		Content:  base64.StdEncoding.EncodeToString(artifact.Content),
		Encoding: "base64",
	}

	if payload.Send {
		if err := appCtx.Mailer().Send(handoff, artifact); err != nil {
			return fail(c, http.StatusBadGateway, "MAIL_ERROR", "Failed to send report mail", err.Error())
		}
		result.Sent = true
	}

	appCtx.PublishOprLog("api", clientIP(c), "email_report", product.Name)
	return ok(c, result)
}

func downloadComponentCSV(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	appCtx := GetAppContext(c)
	ctx := c.Request().Context()

	product, err := appCtx.Store().GetProduct(ctx, id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	components, err := appCtx.Store().ComponentTestsByProduct(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query components", err.Error())
	}

	data, err := report.EncodeComponentCSV(*product, components)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to encode CSV", err.Error())
	}

	filename := report.CSVFilename(product.Name, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

func exportError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, report.ErrInvalidInput):
		return fail(c, http.StatusUnprocessableEntity, "INVALID_PRODUCT", "Product is missing a name or inventory ID", nil)
	case err.Error() == "invalid product ID":
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	case err.Error() == "product not found":
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	default:
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build report", err.Error())
	}
}
