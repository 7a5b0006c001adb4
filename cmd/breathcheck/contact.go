package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/breathcheck/internal/content"
	"github.com/ShayCichocki/breathcheck/internal/forms"
)

var contactReq forms.ContactRequest

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Show nurse contact history or send a request",
	Long: `Without flags, print the emergency notice and your conversation history
with the nurse.

With --method and --reason, validate and send a contact request.

Methods:  ` + strings.Join(content.ContactMethods, ", ") + `
Urgency:  ` + strings.Join(content.UrgencyLevels, ", ") + ` (default ` + content.DefaultUrgency + `)
Reasons:  ` + strings.Join(content.ContactReasons, ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if contactReq.Method == "" && contactReq.Reason == "" && contactReq.Message == "" {
			printContactHistory(out)
			return nil
		}
		return sendContactRequest(out, contactReq)
	},
}

func init() {
	contactCmd.Flags().StringVar(&contactReq.Method, "method", "", "How the nurse should reach you")
	contactCmd.Flags().StringVar(&contactReq.Urgency, "urgency", "", "Request urgency")
	contactCmd.Flags().StringVar(&contactReq.Reason, "reason", "", "Reason for contact")
	contactCmd.Flags().StringVarP(&contactReq.Message, "message", "m", "", "Optional message")
}

func sendContactRequest(out io.Writer, req forms.ContactRequest) error {
	if err := forms.ValidateContactRequest(req).Err(); err != nil {
		return err
	}
	req = req.Normalize()
	log.Printf("[contact] request: %s via %s (%s)", req.Reason, req.Method, req.Urgency)

	fmt.Fprintf(out, "%s Request sent: %s, %s, %s\n",
		color.GreenString("✓"), req.Reason, req.Method, req.Urgency)
	if req.Message != "" {
		fmt.Fprintf(out, "  %q\n", req.Message)
	}
	return nil
}

func printContactHistory(out io.Writer) {
	warn := color.New(color.FgRed, color.Bold)
	warn.Fprintln(out, "⚠ "+content.EmergencyNotice)
	for _, s := range content.EmergencySymptoms {
		fmt.Fprintf(out, "  • %s\n", s)
	}
	fmt.Fprintln(out)

	color.New(color.Bold).Fprintln(out, "When to Contact Your Nurse")
	for _, r := range content.NurseContactReasons {
		fmt.Fprintf(out, "  • %s\n", r)
	}
	fmt.Fprintln(out)

	color.New(color.Bold).Fprintln(out, "Recent Conversations")
	for _, h := range content.ContactHistory() {
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			color.CyanString(h.Kind), urgencyColor(h.Urgency), h.At.Format("Jan 2, 3:04 PM"), h.Tag)
		fmt.Fprintf(out, "  You:   %s\n", h.Message)
		if h.Answered() {
			fmt.Fprintf(out, "  Nurse: %s\n", h.Response)
		} else {
			fmt.Fprintf(out, "  %s\n", color.YellowString("Awaiting response"))
		}
		fmt.Fprintln(out)
	}
}

func urgencyColor(u string) string {
	switch u {
	case "high":
		return color.RedString(u)
	case "medium":
		return color.YellowString(u)
	default:
		return color.New(color.Faint).Sprint(u)
	}
}
