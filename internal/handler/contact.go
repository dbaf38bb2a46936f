package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shoply/internal/queue"
    "github.com/iliyamo/shoply/internal/response"
    "github.com/iliyamo/shoply/internal/service"
)

type contactReq struct {
    Name    string `json:"name"`
    Email   string `json:"email"`
    Message string `json:"message"`
}

// Contact accepts a contact-form submission and hands it to the message
// broker. Delivery is best-effort: a broker outage is logged but does not
// fail the request.
func Contact(c echo.Context) error {
    var req contactReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
        return response.Fail(c, http.StatusBadRequest, "All fields are required")
    }

    ev := queue.ContactMessageEvent{
        Name:    req.Name,
        Email:   req.Email,
        Message: req.Message,
        SentAt:  time.Now().UTC().Format(time.RFC3339),
    }
    if err := service.PublishContactMessage(c.Request().Context(), ev); err != nil {
        c.Logger().Warnf("contact: publish failed: %v", err)
    }
    return response.OK(c, http.StatusOK, "Message sent", nil)
}
