package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shoply/internal/middleware"
    "github.com/iliyamo/shoply/internal/model"
    "github.com/iliyamo/shoply/internal/repository"
    "github.com/iliyamo/shoply/internal/response"
)

// ProfileHandler serves the optional per-user profile. Creation is lazy:
// the upsert and the avatar path share one create-if-absent entry point in
// the store, so there is no separate "create" endpoint to race against.
type ProfileHandler struct {
    Profiles repository.ProfileStore
}

func NewProfileHandler(profiles repository.ProfileStore) *ProfileHandler {
    return &ProfileHandler{Profiles: profiles}
}

type profileReq struct {
    Firstname string  `json:"firstname"`
    Lastname  string  `json:"lastname"`
    Bio       *string `json:"bio"`
    DOB       *string `json:"dob"` // YYYY-MM-DD
    Phone     *string `json:"phone"`
    Location  *string `json:"location"`
}

type avatarReq struct {
    Avatar string `json:"avatar"`
}

// Me returns the caller's profile, or null data when none exists yet.
func (h *ProfileHandler) Me(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Profiles.GetByUserID(ctx, uid)
    if errors.Is(err, repository.ErrNotFound) {
        return response.OK(c, http.StatusOK, "No profile yet", nil)
    }
    if err != nil {
        c.Logger().Errorf("fetch profile: %v", err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to fetch profile")
    }
    return response.OK(c, http.StatusOK, "Profile fetched successfully", p)
}

// Upsert creates or updates the caller's profile. Only the session's own
// row is ever touched.
func (h *ProfileHandler) Upsert(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }
    var req profileReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }

    p := &model.Profile{
        UserID:    uid,
        Firstname: strings.TrimSpace(req.Firstname),
        Lastname:  strings.TrimSpace(req.Lastname),
        Bio:       req.Bio,
        Phone:     req.Phone,
        Location:  req.Location,
    }
    if req.DOB != nil && *req.DOB != "" {
        dob, err := time.Parse("2006-01-02", *req.DOB)
        if err != nil {
            return response.Fail(c, http.StatusBadRequest, "Invalid date of birth, expected YYYY-MM-DD")
        }
        p.DOB = &dob
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    saved, err := h.Profiles.Upsert(ctx, p)
    if err != nil {
        c.Logger().Errorf("upsert profile: %v", err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to save profile")
    }
    return response.OK(c, http.StatusOK, "Profile updated", saved)
}

// Avatar stores a new avatar URL, creating the profile row when absent.
func (h *ProfileHandler) Avatar(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }
    var req avatarReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    req.Avatar = strings.TrimSpace(req.Avatar)
    if req.Avatar == "" {
        return response.Fail(c, http.StatusBadRequest, "No avatar URL provided")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Profiles.SetAvatar(ctx, uid, req.Avatar)
    if err != nil {
        c.Logger().Errorf("set avatar: %v", err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to update avatar")
    }
    return response.OK(c, http.StatusCreated, "Avatar updated successfully", p)
}
