package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/app/models/dto"
	"github.com/campusreg/registrar/internal/app/services"
	"github.com/campusreg/registrar/internal/middleware"
)

// RegistrationController is the HTTP surface of the registration engine.
type RegistrationController struct {
	eligibility  *services.EligibilityService
	registration *services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(
	eligibility *services.EligibilityService,
	registration *services.RegistrationService,
) *RegistrationController {
	return &RegistrationController{
		eligibility:  eligibility,
		registration: registration,
	}
}

// currentRecord pulls the record loaded by the CurrentRecordRequired middleware.
func currentRecord(ctx *gin.Context) *models.StudentAcademicRecord {
	value, exists := ctx.Get(middleware.ContextCurrentRecord)
	if !exists {
		return nil
	}
	record, _ := value.(*models.StudentAcademicRecord)
	return record
}

// GetOfferings lists the offerings the student may register for
// @Summary List compatible offerings
// @Description Returns the offerings matching the student's current period, semester number and department, plus the ids already enrolled in
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationOfferingsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No active academic record"
// @Router /registration/offerings [get]
func (c *RegistrationController) GetOfferings(ctx *gin.Context) {
	record := currentRecord(ctx)

	offerings, err := c.eligibility.CompatibleOfferings(ctx.Request.Context(), record)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	enrolledIDs, err := c.eligibility.EnrolledOfferingIDs(ctx.Request.Context(), record)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RegistrationOfferingsResponse{
		Offerings:           make([]dto.OfferingResponse, 0, len(offerings)),
		EnrolledOfferingIDs: enrolledIDs,
	}
	for _, off := range offerings {
		resp.Offerings = append(resp.Offerings, dto.NewOfferingResponse(off))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// BatchEnroll enrolls the student in the selected offerings
// @Summary Register for course offerings
// @Description Best-effort batch enrollment; failed identifiers are reported without aborting the rest
// @Tags registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchEnrollRequest true "Selected offering ids"
// @Success 200 {object} dto.APIResponse{data=dto.BatchEnrollResponse} "Tally and per-item errors"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No active academic record"
// @Router /registration/enroll [post]
func (c *RegistrationController) BatchEnroll(ctx *gin.Context) {
	var req dto.BatchEnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data")
		errorDetail = errorDetail.WithDetails(err.Error()).WithField("offeringIds")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record := currentRecord(ctx)
	successCount, errMessages := c.registration.BatchEnroll(ctx.Request.Context(), record, req.OfferingIDs)

	if successCount > 0 {
		c.eligibility.InvalidateCache(ctx.Request.Context(), record.ID)
	}

	// Partial failure is still a 200; the body carries the per-item outcome
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.BatchEnrollResponse{
		SuccessCount: successCount,
		Errors:       errMessages,
	}))
}
