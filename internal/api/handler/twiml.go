package handler

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

// twimlResponse is the TwiML envelope Twilio expects back from a webhook.
// One <Message> element per reply; Twilio delivers its text to the sender.
type twimlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// renderTwiML writes the reply as a TwiML document.
func renderTwiML(c *gin.Context, body string) {
	payload, err := xml.Marshal(twimlResponse{Messages: []string{body}})
	if err != nil {
		c.String(http.StatusInternalServerError, "twiml encoding failed")
		return
	}
	c.Data(http.StatusOK, "application/xml", append([]byte(xml.Header), payload...))
}
