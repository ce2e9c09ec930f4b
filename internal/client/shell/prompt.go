package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/GophShop/internal/models"
	"github.com/atinyakov/GophShop/internal/service"
)

// ask prints label and reads one trimmed line. An empty answer yields def.
func (s *Shell) ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.in.Scan() {
		return def
	}
	answer := strings.TrimSpace(s.in.Text())
	if answer == "" {
		return def
	}
	return answer
}

// askSecret reads one line verbatim. Passwords may start or end with
// spaces, so only the line ending is dropped.
func (s *Shell) askSecret(label string) string {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSuffix(s.in.Text(), "\r")
}

func (s *Shell) promptRegistration() service.RegisterRequest {
	req := service.RegisterRequest{
		FirstName: s.ask("First name", ""),
		LastName:  s.ask("Last name", ""),
		Email:     s.ask("Email", ""),
		Password:  s.askSecret("Password"),
	}
	admin := strings.ToLower(s.ask("Admin account? (y/N)", ""))
	req.IsAdmin = admin == "y" || admin == "yes"
	return req
}

// promptDraft reads a product form. When editing, current supplies the
// values kept on empty input.
func (s *Shell) promptDraft(current *models.Product) models.ProductDraft {
	var cur models.ProductDraft
	if current != nil {
		cur = models.ProductDraft{
			Name:  current.Name,
			Desc:  current.Desc,
			Price: strconv.FormatFloat(current.Price, 'f', -1, 64),
			Stock: strconv.Itoa(current.Stock),
			Image: current.Image,
		}
	}
	return models.ProductDraft{
		Name:  s.ask("Name", cur.Name),
		Desc:  s.ask("Description", cur.Desc),
		Price: s.ask("Price", cur.Price),
		Stock: s.ask("Stock", cur.Stock),
		Image: s.ask("Image path", cur.Image),
	}
}
