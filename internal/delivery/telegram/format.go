package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/usecase"
)

// Callback data prefixes of the SKU selector keyboards
const (
	cbPlanogramAdd  = "pg_add"
	cbPlanogramEdit = "pg_edit"
	cbFacingAdd     = "fc_add"
)

// callbackData telegram limits callback payloads to 64 bytes
const callbackDataLimit = 64

// skuAction decoded SKU selector button
type skuAction struct {
	Kind  string
	Index int
	SkuID string
}

// parseCallback pg_add:<sku>, fc_add:<sku>, pg_edit:<index>:<sku>
func parseCallback(data string) (skuAction, error) {
	kind, rest, ok := strings.Cut(data, ":")
	if !ok || rest == "" {
		return skuAction{}, fmt.Errorf("malformed callback %q", data)
	}

	switch kind {
	case cbPlanogramAdd, cbFacingAdd:
		return skuAction{Kind: kind, SkuID: rest}, nil
	case cbPlanogramEdit:
		idx, sku, ok := strings.Cut(rest, ":")
		if !ok || sku == "" {
			return skuAction{}, fmt.Errorf("malformed callback %q", data)
		}
		index, err := strconv.Atoi(idx)
		if err != nil || index < 0 {
			return skuAction{}, fmt.Errorf("malformed row index in %q", data)
		}
		return skuAction{Kind: kind, Index: index, SkuID: sku}, nil
	}
	return skuAction{}, fmt.Errorf("unknown callback %q", data)
}

// buildSkuKeyboard two SKU buttons per row; SKUs whose callback would overflow are skipped
func buildSkuKeyboard(entries []entity.SkuCatalogEntry, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}

	for _, e := range entries {
		data := prefix + ":" + e.SkuID
		if len(data) > callbackDataLimit {
			continue
		}
		label := truncateString(fmt.Sprintf("%s - %s", e.SkuID, e.SkuName), 40)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// shopFieldFromArg maps /shop arguments to form field names
func shopFieldFromArg(arg string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "id", usecase.FieldShopID:
		return usecase.FieldShopID, true
	case "name", usecase.FieldShopName:
		return usecase.FieldShopName, true
	case "location", usecase.FieldShopLocation:
		return usecase.FieldShopLocation, true
	case "type", usecase.FieldShopType:
		return usecase.FieldShopType, true
	}
	return "", false
}

// parseRowNumber 1-based row number from the user into a slice index
func parseRowNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("row number must be a positive integer")
	}
	return n - 1, nil
}

// parseCatalogArgs org and search text of /catalog. An open draft fixes the organization,
// so every argument is search text; otherwise the first argument names the organization.
func parseCatalogArgs(args, sessionOrg, defaultOrg string) (orgID, query string) {
	args = strings.TrimSpace(args)
	if sessionOrg != "" {
		return sessionOrg, args
	}
	if args == "" {
		return defaultOrg, ""
	}
	orgID, query, _ = strings.Cut(args, " ")
	return orgID, strings.TrimSpace(query)
}

func newShopMessage(orgID string, hasCatalog bool) string {
	text := fmt.Sprintf(`✅ New shop draft for %s.

Set the shop fields with /shop id|name|location|type <value>, then send a planogram file or add rows with /addrow.`, orgID)
	if !hasCatalog {
		text += fmt.Sprintf("\n\n⚠️ %s has no SKU catalog yet, so /addrow and /addfacing have nothing to offer. File imports still work.", orgID)
	}
	return text
}

func formatSkuMatches(query string, entries []entity.SkuCatalogEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No catalog SKUs match %q.", query)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SKUs matching %q:\n\n", query))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, e.SkuID, e.SkuName))
	}
	return truncateString(sb.String(), 4000)
}

func formatDraft(d *entity.ShopDraft) string {
	var sb strings.Builder

	details := d.Details.Normalize()
	sb.WriteString(fmt.Sprintf("Shop draft for %s\n\n", d.OrgID))
	sb.WriteString(fmt.Sprintf("ID: %s\n", nonEmpty(details.ShopID, "-")))
	sb.WriteString(fmt.Sprintf("Name: %s\n", nonEmpty(details.ShopName, "-")))
	sb.WriteString(fmt.Sprintf("Location: %s\n", nonEmpty(details.ShopLocation, "-")))
	sb.WriteString(fmt.Sprintf("Type: %s\n", nonEmpty(details.ShopType, "-")))
	if d.Source != "" {
		sb.WriteString(fmt.Sprintf("File: %s\n", d.Source))
	}

	sb.WriteString(fmt.Sprintf("\nPlanogram (%d):\n", len(d.Planogram)))
	if len(d.Planogram) == 0 {
		sb.WriteString("  none\n")
	}
	for i, row := range d.Planogram {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, nullText(row.SkuID), nullText(row.SkuName)))
	}

	sb.WriteString(fmt.Sprintf("\nFacings (%d):\n", len(d.Facings)))
	if len(d.Facings) == 0 {
		sb.WriteString("  none\n")
	}
	for _, id := range d.Facings.Keys() {
		entry := d.Facings[id]
		sb.WriteString(fmt.Sprintf("%s - %s: %d\n", id, nonEmpty(entry.SkuName, "?"), entry.Facings))
	}

	return truncateString(sb.String(), 4000)
}

// userMessage user-facing text for an operation error
func userMessage(err error) string {
	var (
		missing     *entity.MissingColumnError
		unsupported *entity.UnsupportedFileTypeError
		duplicate   *entity.DuplicateSkuError
		invalid     *entity.InvalidFacingsError
		unknown     *entity.UnknownSkuError
		field       *entity.InvalidShopFieldError
		submission  *entity.SubmissionError
		tooLarge    *usecase.FileTooLargeError
	)

	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("❌ Column %q is missing. The header needs sku_id and sku_name.", missing.Field)
	case errors.As(err, &unsupported):
		return "❌ Only .csv, .xlsx and .xls files are supported."
	case errors.Is(err, entity.ErrEmptyFile):
		return "❌ The file has no data rows."
	case errors.As(err, &duplicate):
		return fmt.Sprintf("❌ %s already has facings. Use /editfacing %s <count>.", duplicate.SkuID, duplicate.SkuID)
	case errors.As(err, &invalid):
		return "❌ " + invalid.Error()
	case errors.As(err, &unknown):
		return fmt.Sprintf("❌ %s is not in the catalog.", unknown.SkuID)
	case errors.As(err, &field):
		return fmt.Sprintf("❌ %s is required. Set it with /shop.", field.Field)
	case errors.As(err, &submission):
		return "❌ " + submission.Reason
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("❌ File is too large (limit %d bytes).", tooLarge.Limit)
	case errors.Is(err, entity.ErrFacingNotFound):
		return "❌ No facings entry for that SKU."
	case errors.Is(err, entity.ErrRowOutOfRange):
		return "❌ No planogram row with that number."
	case errors.Is(err, entity.ErrDraftNotFound):
		return "❌ No open shop draft. Start one with /newshop."
	case errors.Is(err, entity.ErrStaleUpload):
		return "ℹ️ A newer file replaced this upload."
	}
	return "❌ Something went wrong. Please try again."
}

func nullText(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

func nonEmpty(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

// truncateString caps s at max bytes, cutting on a rune boundary
func truncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut, suffix := max-3, "..."
	if max <= 3 {
		cut, suffix = max, ""
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}

const helpMessage = `Shop setup commands:

/newshop [org] - start a shop draft
/shop <id|name|location|type> <value> - set a shop field
/addrow [search] - append a SKU to the planogram
/editrow <n> [search] - replace the SKU in row n
/removerow <n> - remove row n
/clearrows - empty the planogram
/addfacing [search] - add a facings entry
/editfacing <sku> <count> - change a facings count
/removefacing <sku> - remove a facings entry
/clearfacings - empty the facings
/catalog [org] [search] - list or search the organization SKUs
/draft - show the draft
/submit - create the shop
/cancel - discard the draft

Send a .csv, .xlsx or .xls file with sku_id and sku_name columns (and optionally facings) to import the planogram.`
