// Package synthesia is a typed client for the Synthesia v2 REST API.
//
// # Quick Start
//
//	client := synthesia.New(os.Getenv("SYNTHESIA_API_KEY"))
//
//	res := client.Videos().Create(ctx, &synthesia.CreateVideoRequest{
//	    Test:  true,
//	    Title: "Quarterly update",
//	    Input: []synthesia.VideoInput{{
//	        ScriptText: "Hello from reel.",
//	        Avatar:     "anna_costume1_cameraA",
//	        Background: "green_screen",
//	    }},
//	})
//	video, err := res.Unwrap()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	video, err = client.Videos().WaitForCompletion(ctx, video.ID, core.PollConfig{})
//
// # Results
//
// Every call returns a core.Result holding either the decoded response or a
// *core.APIError. The client never retries unless WithRetries is set, and it
// never logs unless WithLogger is set.
//
// Requests are validated before they are sent. An invalid request yields a
// 400 APIError with code "validation_error" and per-field details, and no
// network call is made.
//
// # Hosts
//
// Standard calls go to DefaultBaseURL. Asset uploads go to DefaultUploadURL
// with the raw media bytes as the body.
//
// # Rate Limits
//
// Client.RateLimit reports the X-RateLimit-* headers of the last response
// that carried them. WithRateLimit adds client-side throttling.
package synthesia
