package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportPayments downloads the payment history as an Excel workbook
func (h *Handler) ExportPayments(c *gin.Context) {
	email := utils.NormalizeEmail(c.Query("email"))
	utils.LogInfo("ExportPayments called with email=%q", email)

	payments, err := h.payments.List(c.Request.Context(), email)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrPaymentNotFound))
		return
	}
	utils.LogDebug("Retrieved %d payments for export", len(payments))

	file, err := paymentsWorkbook(payments, email)
	if err != nil {
		utils.RespondWithError(c, utils.InternalError("Failed to create Excel sheet", err))
		return
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.RespondWithError(c, utils.InternalError("Failed to write Excel file", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payments_%s.xlsx", h.now().UTC().Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	utils.LogInfo("Exported %d payments", len(payments))
}

func paymentsWorkbook(payments []models.Payment, email string) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments")
	if err != nil {
		return nil, err
	}

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	title := sheet.AddRow().AddCell()
	title.SetString("ZAP SHIFT - Payment History")
	title.SetStyle(bold)
	scope := "All customers"
	if email != "" {
		scope = "Customer: " + email
	}
	sheet.AddRow().AddCell().SetString(scope)
	sheet.AddRow() // spacing

	headers := []string{"Paid At", "Tracking ID", "Parcel", "Customer", "Amount", "Currency", "Provider", "Transaction ID"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	totals := make(map[string]models.Money)
	for _, p := range payments {
		row := sheet.AddRow()
		row.AddCell().SetString(p.PaidAt.UTC().Format("2006-01-02 15:04"))
		row.AddCell().SetString(p.TrackingID)
		row.AddCell().SetString(p.ParcelName)
		row.AddCell().SetString(p.CustomerEmail)
		row.AddCell().SetString(p.Amount.String())
		row.AddCell().SetString(strings.ToUpper(p.Currency))
		row.AddCell().SetString(p.Provider)
		row.AddCell().SetString(p.TransactionID)
		totals[strings.ToUpper(p.Currency)] += p.Amount
	}

	sheet.AddRow() // spacing

	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	for _, currency := range currencies {
		row := sheet.AddRow()
		label := row.AddCell()
		label.SetString("Total")
		label.SetStyle(bold)
		for i := 0; i < 3; i++ {
			row.AddCell()
		}
		row.AddCell().SetString(totals[currency].String())
		row.AddCell().SetString(currency)
	}

	return file, nil
}
