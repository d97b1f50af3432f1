package handler

import (
	"github.com/edusuite/backend/internal/application/relationship"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MeHandler serves the caller-centric endpoints
type MeHandler struct {
	BaseHandler
	relationships  *relationship.Service
	reportsEnabled bool
}

// NewMeHandler creates a new MeHandler. With reports disabled the reports permission is
// withheld from every caller.
func NewMeHandler(relationships *relationship.Service, reportsEnabled bool) *MeHandler {
	return &MeHandler{relationships: relationships, reportsEnabled: reportsEnabled}
}

// effectivePermissions applies feature switches to the caller's role permissions
func (h *MeHandler) effectivePermissions(caller *identity.Identity) identity.PermissionSet {
	perms := caller.Permissions()
	if !h.reportsEnabled {
		perms = perms.Without(identity.PermReportsGenerate)
	}
	return perms
}

// Me handles GET /me
func (h *MeHandler) Me(c *gin.Context) {
	me := caller(c)
	if me == nil {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}
	h.Success(c, dto.ToMeResponse(me, h.effectivePermissions(me)))
}

// Children handles GET /me/children
func (h *MeHandler) Children(c *gin.Context) {
	children, err := h.relationships.ChildrenOf(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToStudentSummaryResponses(children))
}

// Child handles GET /me/children/:studentId
func (h *MeHandler) Child(c *gin.Context) {
	studentID, err := parseUUIDParam(c, "studentId", "student")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	child, err := h.relationships.ChildOf(c.Request.Context(), caller(c), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToStudentSummaryResponse(*child))
}

// Teaching handles GET /me/teaching
func (h *MeHandler) Teaching(c *gin.Context) {
	load, err := h.relationships.ClassesAndSubjectsOf(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTeachingLoadResponse(load))
}

// Roster handles GET /me/roster
func (h *MeHandler) Roster(c *gin.Context) {
	roster, err := h.relationships.VisibleRoster(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToStudentSummaryResponses(roster))
}

// GuardianHandler manages guardian links
type GuardianHandler struct {
	BaseHandler
	relationships *relationship.Service
}

// NewGuardianHandler creates a new GuardianHandler
func NewGuardianHandler(relationships *relationship.Service) *GuardianHandler {
	return &GuardianHandler{relationships: relationships}
}

// Link handles POST /students/:id/guardians
func (h *GuardianHandler) Link(c *gin.Context) {
	studentID, err := parseUUIDParam(c, "id", "student")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req dto.LinkGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.relationships.LinkGuardian(c.Request.Context(), caller(c), relationship.LinkGuardianInput{
		StudentID:          studentID,
		GuardianID:         req.GuardianID,
		Relationship:       req.Relationship,
		IsPrimary:          req.IsPrimary,
		IsEmergencyContact: req.IsEmergencyContact,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Guardian linked", dto.ToStudentGuardianResponse(link))
}
