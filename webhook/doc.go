// Package webhook verifies and decodes webhook deliveries sent by Synthesia.
//
// Each delivery is signed with the secret returned when the webhook was
// created. Verify the raw body before trusting it:
//
//	event, err := webhook.VerifyAndParse(body, r.Header.Get(webhook.SignatureHeader), secret)
//	if err != nil {
//	    http.Error(w, "bad delivery", http.StatusUnauthorized)
//	    return
//	}
//	video, err := event.Video()
//
// Handler wraps the same steps in an http.Handler.
package webhook
