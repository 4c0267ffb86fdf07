package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"

	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// DownloadReceipt renders a PDF receipt for one recorded payment
func (h *Handler) DownloadReceipt(c *gin.Context) {
	utils.LogInfo("Starting receipt download for payment %s", c.Param("id"))

	id, appErr := parseObjectID(c.Param("id"), utils.ErrInvalidPaymentID)
	if appErr != nil {
		utils.RespondWithError(c, appErr)
		return
	}

	payment, err := h.payments.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrPaymentNotFound))
		return
	}

	data, err := renderReceipt(payment)
	if err != nil {
		utils.RespondWithError(c, utils.InternalError("Failed to generate receipt", err))
		return
	}

	utils.LogInfo("Receipt generated for payment %s", id.Hex())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", payment.TrackingID))
	c.Data(http.StatusOK, "application/pdf", data)
}

func renderReceipt(payment *models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Zap Shift")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Fast parcel delivery")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Tracking ID: "+payment.TrackingID)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Paid At: "+payment.PaidAt.UTC().Format("2006-01-02 15:04:05 MST"))
	pdf.Ln(8)
	pdf.Cell(100, 8, "Billed To: "+payment.CustomerEmail)
	pdf.Ln(12)

	// Details table
	rows := [][2]string{
		{"Parcel", payment.ParcelName},
		{"Parcel ID", payment.ParcelID.Hex()},
		{"Provider", payment.Provider},
		{"Transaction ID", payment.TransactionID},
		{"Status", payment.PaymentStatus},
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 8, "Field", "1", 0, "C", false, 0, "")
	pdf.CellFormat(120, 8, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, row := range rows {
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(120, 8, row[1], "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Amount Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, payment.Amount.String()+" "+strings.ToUpper(payment.Currency), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for shipping with Zap Shift!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
