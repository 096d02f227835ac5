package dto

import "github.com/campusreg/registrar/internal/app/models"

// BatchEnrollRequest is the body of POST /registration/enroll.
type BatchEnrollRequest struct {
	OfferingIDs []int64 `json:"offeringIds" binding:"required,min=1"`
}

// BatchEnrollResponse reports the outcome of a batch enrollment. The batch is
// best effort: Errors lists per-identifier failures while SuccessCount covers
// the enrollments that were created.
type BatchEnrollResponse struct {
	SuccessCount int      `json:"successCount"`
	Errors       []string `json:"errors"`
}

// OfferingResponse is one selectable offering on the registration screen.
type OfferingResponse struct {
	ID             int64  `json:"id"`
	CourseName     string `json:"courseName"`
	CourseCode     string `json:"courseCode"`
	CreditHours    int    `json:"creditHours"`
	DepartmentName string `json:"departmentName"`
	SemesterNumber int    `json:"semesterNumber"`
}

// RegistrationOfferingsResponse backs GET /registration/offerings.
type RegistrationOfferingsResponse struct {
	Offerings           []OfferingResponse `json:"offerings"`
	EnrolledOfferingIDs []int64            `json:"enrolledOfferingIds"`
}

// NewOfferingResponse maps an offering with populated relations.
func NewOfferingResponse(off *models.CourseOffering) OfferingResponse {
	resp := OfferingResponse{
		ID:             off.ID,
		SemesterNumber: off.SemesterNumber,
	}
	if off.Course != nil {
		resp.CourseName = off.Course.Name
		resp.CourseCode = off.Course.Code
		resp.CreditHours = off.Course.CreditHours
	}
	if off.Department != nil {
		resp.DepartmentName = off.Department.Name
	}
	return resp
}
