package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/metrics"
	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// Root answers the liveness greeting
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, utils.RootMessage)
}

// CreateParcel stores a new unpaid parcel
func (h *Handler) CreateParcel(c *gin.Context) {
	utils.LogInfo("CreateParcel called")

	var details models.ParcelDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.LogDebug("Invalid parcel body: %v", err)
		utils.ValidationError(c, utils.ErrInvalidBody, err.Error())
		return
	}
	if errs := utils.NormalizeParcelDetails(&details); len(errs) > 0 {
		utils.LogDebug("Rejected parcel fields: %v", errs)
		utils.Error(c, http.StatusUnprocessableEntity, utils.ErrInvalidBody, gin.H{"errors": errs})
		return
	}

	parcel := models.NewParcel(details, h.now())
	result, err := h.parcels.Create(c.Request.Context(), parcel)
	metrics.DbParcelCreate.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}

	utils.LogInfo("Parcel %s created for %s", result.InsertedID.Hex(), parcel.SenderEmail)
	c.JSON(http.StatusCreated, result)
}

// ListParcels returns all parcels, or those of one sender when email is given
func (h *Handler) ListParcels(c *gin.Context) {
	email := utils.NormalizeEmail(c.Query("email"))
	utils.LogDebug("ListParcels called with email=%q", email)

	parcels, err := h.parcels.List(c.Request.Context(), email)
	metrics.DbParcelList.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}

	c.JSON(http.StatusOK, parcels)
}

func (h *Handler) GetParcel(c *gin.Context) {
	id, appErr := parseObjectID(c.Param("id"), utils.ErrInvalidParcelID)
	if appErr != nil {
		utils.RespondWithError(c, appErr)
		return
	}

	parcel, err := h.parcels.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}
	c.JSON(http.StatusOK, parcel)
}

// TrackParcel looks a parcel up by the tracking id issued on payment
func (h *Handler) TrackParcel(c *gin.Context) {
	trackingID := c.Param("trackingId")
	if !utils.IsValidTrackingID(trackingID) {
		utils.BadRequest(c, utils.ErrInvalidTracking, nil)
		return
	}

	parcel, err := h.parcels.FindByTrackingID(c.Request.Context(), trackingID)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}
	c.JSON(http.StatusOK, parcel)
}

// DeleteParcel removes one parcel. A miss is reported as 404 with the
// store's acknowledgement as payload.
func (h *Handler) DeleteParcel(c *gin.Context) {
	utils.LogInfo("DeleteParcel called for %s", c.Param("id"))

	id, appErr := parseObjectID(c.Param("id"), utils.ErrInvalidParcelID)
	if appErr != nil {
		utils.RespondWithError(c, appErr)
		return
	}

	result, err := h.parcels.Delete(c.Request.Context(), id)
	metrics.DbParcelDelete.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}
	if result.DeletedCount == 0 {
		utils.Error(c, http.StatusNotFound, utils.ErrParcelNotFound, result)
		return
	}

	utils.LogInfo("Parcel %s deleted", id.Hex())
	c.JSON(http.StatusOK, result)
}
