package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/follows"
)

// FollowsController serves the follow graph: following and unfollowing other
// readers and listing either side of the relationship.
type FollowsController struct {
	store FollowStore
}

func NewFollowsController(store FollowStore) *FollowsController {
	return &FollowsController{store: store}
}

// Follow makes the current user follow another user.
// POST /api/users/:userId/follow
func (fc *FollowsController) Follow(c *gin.Context) {
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	created, err := fc.store.Follow(GetUserID(c), targetID)
	if err != nil {
		if errors.Is(err, follows.ErrSelfFollow) {
			respondBadRequest(c, "cannot follow yourself")
			return
		}
		if errors.Is(err, follows.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "follow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": true, "created": created})
}

// Unfollow removes the current user's follow of another user. Unfollowing
// someone the user does not follow is a no-op.
// DELETE /api/users/:userId/follow
func (fc *FollowsController) Unfollow(c *gin.Context) {
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	removed, err := fc.store.Unfollow(GetUserID(c), targetID)
	if err != nil {
		respondInternalError(c, err, "unfollow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": false, "removed": removed})
}

// Status reports whether the current user follows the given user.
// GET /api/users/:userId/follow
func (fc *FollowsController) Status(c *gin.Context) {
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	following, err := fc.store.IsFollowing(GetUserID(c), targetID)
	if err != nil {
		respondInternalError(c, err, "follow status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Followers lists the users following the given user.
// GET /api/users/:userId/followers
func (fc *FollowsController) Followers(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	limit, offset := parsePagination(c)

	followers, err := fc.store.GetFollowers(userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list followers")
		return
	}
	total, err := fc.store.GetFollowerCount(userID)
	if err != nil {
		respondInternalError(c, err, "count followers")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(followers, total, limit, offset))
}

// Following lists the users the given user follows.
// GET /api/users/:userId/following
func (fc *FollowsController) Following(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	limit, offset := parsePagination(c)

	following, err := fc.store.GetFollowing(userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list following")
		return
	}
	total, err := fc.store.GetFollowingCount(userID)
	if err != nil {
		respondInternalError(c, err, "count following")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(following, total, limit, offset))
}
