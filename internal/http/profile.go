package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/database/users"
	"github.com/safhaapp/safha/internal/entities"
)

// ProfileController serves reader profiles. A profile combines the user row,
// whose denormalized counters carry follower/following/read counts, with the
// per-status library summary.
type ProfileController struct {
	users   UserStore
	library LibraryStore
	follows FollowStore
}

func NewProfileController(userStore UserStore, libraryStore LibraryStore, followStore FollowStore) *ProfileController {
	return &ProfileController{
		users:   userStore,
		library: libraryStore,
		follows: followStore,
	}
}

type profileResponse struct {
	User       *entities.User   `json:"user"`
	Summary    *library.Summary `json:"summary"`
	IsFollowed bool             `json:"is_followed"`
	IsSelf     bool             `json:"is_self"`
}

// GetProfile returns another user's public profile.
// GET /api/users/:userId
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	pc.respondProfile(c, userID)
}

// GetOwnProfile returns the current user's profile.
// GET /api/profile
func (pc *ProfileController) GetOwnProfile(c *gin.Context) {
	pc.respondProfile(c, GetUserID(c))
}

func (pc *ProfileController) respondProfile(c *gin.Context, userID uint) {
	user, err := pc.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}

	summary, err := pc.library.GetStatusSummary(userID)
	if err != nil {
		respondInternalError(c, err, "profile summary")
		return
	}

	viewerID := GetUserID(c)
	isFollowed := false
	if viewerID != userID {
		isFollowed, err = pc.follows.IsFollowing(viewerID, userID)
		if err != nil {
			respondInternalError(c, err, "profile follow status")
			return
		}
	}

	c.JSON(http.StatusOK, profileResponse{
		User:       user,
		Summary:    summary,
		IsFollowed: isFollowed,
		IsSelf:     viewerID == userID,
	})
}

type updateProfileRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	CoverPhoto     string `json:"cover_photo"`
}

// UpdateProfile updates the current user's display fields.
// PUT /api/profile
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	userID := GetUserID(c)
	err := pc.users.UpdateProfile(userID, req.FirstName, req.LastName, req.Bio, req.ProfilePicture, req.CoverPhoto)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "update profile")
		return
	}

	user, err := pc.users.GetUserByID(userID)
	if err != nil {
		respondInternalError(c, err, "reload profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// SearchUsers finds readers by username or name.
// GET /api/users?q=...
func (pc *ProfileController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}
	limit, offset := parsePagination(c)

	results, err := pc.users.SearchUsers(query, limit, offset)
	if err != nil {
		respondInternalError(c, err, "search users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results, "limit": limit, "offset": offset})
}
