package api

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/delete_account.html
var templateFS embed.FS

var deleteAccountPage = template.Must(template.ParseFS(templateFS, "templates/delete_account.html"))

// pageState is rendered into the delete account page.
type pageState struct {
	Email   string
	Error   string
	Message string
}

// DeleteAccountPage renders the account deletion form.
func (h *Handlers) DeleteAccountPage(c *fiber.Ctx) error {
	return h.renderPage(c, fiber.StatusOK, pageState{})
}

// DeleteAccount verifies the submitted credentials and deletes the account.
// Clients that accept JSON get {message} or {error}; browsers posting the
// form without script get the page back with the result.
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	var form DeleteAccountForm
	// An unparsable body is treated like an empty form.
	_ = c.BodyParser(&form)
	form.Email = strings.TrimSpace(form.Email)

	status := fiber.StatusOK
	state := pageState{Email: form.Email, Message: msgAccountDeleted}

	if err := h.authPort.DeleteAccount(c.UserContext(), form.Email, form.Password); err != nil {
		code, message, ok := authError(err)
		if !ok {
			h.logger.WithError(err).Error("Delete account error")
		}
		status = code
		state.Message = ""
		state.Error = message
	} else {
		state.Email = ""
		h.logger.Info("Account deleted through the delete account form")
	}

	if !wantsJSON(c) {
		return h.renderPage(c, status, state)
	}
	if state.Error != "" {
		return c.Status(status).JSON(ErrorResponse{Error: state.Error})
	}
	return c.Status(status).JSON(MessageResponse{Message: state.Message})
}

func (h *Handlers) renderPage(c *fiber.Ctx, status int, state pageState) error {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, state); err != nil {
		return h.internalError(c, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// wantsJSON reports whether the client prefers JSON over HTML.
func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMEApplicationJSON
}
