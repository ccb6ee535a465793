package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/store"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Track a new job application",
	RunE:  runApply,
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List tracked applications",
	RunE:  runApplications,
}

var appUpdateCmd = &cobra.Command{
	Use:   "app-update <id>",
	Short: "Update a tracked application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppUpdate,
}

var appDeleteCmd = &cobra.Command{
	Use:   "app-delete <id>",
	Short: "Delete a tracked application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppDelete,
}

var appSummaryCmd = &cobra.Command{
	Use:   "app-summary",
	Short: "Show the application pipeline summary",
	RunE:  runAppSummary,
}

var (
	applyCompany  string
	applyTitle    string
	applyURL      string
	applyLocation string
	applyResume   string
	applyNotes    string
	applySalary   string
	applyContact  string

	listStatus  string
	listCompany string

	updateStatus    string
	updateNotes     string
	updateInterview string
	updateResponse  string
	updateSalary    string
	updateContact   string
	updateResume    string
)

func init() {
	applyCmd.Flags().StringVar(&applyCompany, "company", "", "Company name (required)")
	applyCmd.Flags().StringVar(&applyTitle, "title", "", "Job title (required)")
	applyCmd.Flags().StringVar(&applyURL, "url", "", "Posting URL")
	applyCmd.Flags().StringVar(&applyLocation, "location", "", "Job location")
	applyCmd.Flags().StringVar(&applyResume, "resume", "", "Resume version used")
	applyCmd.Flags().StringVar(&applyNotes, "notes", "", "Free-form notes")
	applyCmd.Flags().StringVar(&applySalary, "salary", "", "Salary range")
	applyCmd.Flags().StringVar(&applyContact, "contact", "", "Contact person")
	applyCmd.MarkFlagRequired("company")
	applyCmd.MarkFlagRequired("title")

	applicationsCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	applicationsCmd.Flags().StringVar(&listCompany, "company", "", "Filter by company substring")

	appUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	appUpdateCmd.Flags().StringVar(&updateNotes, "notes", "", "Replace notes")
	appUpdateCmd.Flags().StringVar(&updateInterview, "interview", "", "Interview date")
	appUpdateCmd.Flags().StringVar(&updateResponse, "response", "", "Response date (YYYY-MM-DD)")
	appUpdateCmd.Flags().StringVar(&updateSalary, "salary", "", "Salary range")
	appUpdateCmd.Flags().StringVar(&updateContact, "contact", "", "Contact person")
	appUpdateCmd.Flags().StringVar(&updateResume, "resume", "", "Resume version")

	rootCmd.AddCommand(applyCmd, applicationsCmd, appUpdateCmd, appDeleteCmd, appSummaryCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.AddApplication(ctx, store.NewApplication{
		Company:       applyCompany,
		Title:         applyTitle,
		URL:           applyURL,
		Location:      applyLocation,
		ResumeVersion: applyResume,
		Notes:         applyNotes,
		SalaryRange:   applySalary,
		ContactPerson: applyContact,
	})
	if err != nil {
		return err
	}
	if id == uuid.Nil {
		fmt.Printf("Already tracking: %s @ %s\n", applyTitle, applyCompany)
		return nil
	}
	fmt.Printf("Tracking application %s: %s @ %s\n", id, applyTitle, applyCompany)
	return nil
}

func runApplications(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	apps, err := st.ListApplications(ctx, listStatus, listCompany)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Println("No applications tracked.")
		return nil
	}

	fmt.Printf("%-36s  %-12s  %-30s  %-25s  %s\n", "ID", "Status", "Title", "Company", "Applied")
	for _, a := range apps {
		fmt.Printf("%-36s  %-12s  %-30s  %-25s  %s\n",
			a.ID, a.Status, truncate(a.Title, 30), truncate(a.Company, 25),
			a.AppliedDate.Format("2006-01-02"))
	}
	return nil
}

func runAppUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", args[0], err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	update := store.ApplicationUpdate{}
	if cmd.Flags().Changed("status") {
		update.Status = &updateStatus
	}
	if cmd.Flags().Changed("notes") {
		update.Notes = &updateNotes
	}
	if cmd.Flags().Changed("interview") {
		update.InterviewDate = &updateInterview
	}
	if cmd.Flags().Changed("response") {
		responded, err := time.Parse("2006-01-02", updateResponse)
		if err != nil {
			return fmt.Errorf("invalid response date %q: %w", updateResponse, err)
		}
		update.ResponseDate = &responded
	}
	if cmd.Flags().Changed("salary") {
		update.SalaryRange = &updateSalary
	}
	if cmd.Flags().Changed("contact") {
		update.ContactPerson = &updateContact
	}
	if cmd.Flags().Changed("resume") {
		update.ResumeVersion = &updateResume
	}

	ok, err := st.UpdateApplication(ctx, id, update)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("application %s not found or nothing to update", id)
	}
	fmt.Printf("Application %s updated\n", id)
	return nil
}

func runAppDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", args[0], err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	deleted, err := st.DeleteApplication(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("application %s not found", id)
	}
	fmt.Printf("Application %s deleted\n", id)
	return nil
}

func runAppSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.GetApplicationSummary(ctx)
	if err != nil {
		return err
	}

	fmt.Println("📝 Application Pipeline")
	fmt.Printf("  Total: %d | Response rate: %s | Avg days to response: %s\n",
		summary.TotalApplications, summary.ResponseRate, summary.AvgDaysToResponse)

	if len(summary.ByStatus) > 0 {
		fmt.Println("\n  By status:")
		for _, row := range summary.ByStatus {
			fmt.Printf("    %-12s %d\n", row.Name, row.Count)
		}
	}
	if len(summary.ByCompany) > 0 {
		fmt.Println("\n  By company:")
		for _, row := range summary.ByCompany {
			fmt.Printf("    %-25s %d\n", truncate(row.Name, 25), row.Count)
		}
	}
	if len(summary.RecentActivity) > 0 {
		fmt.Println("\n  Recent activity (7 days):")
		for _, a := range summary.RecentActivity {
			fmt.Printf("    %s  %s @ %s [%s]\n",
				a.UpdatedDate.Format("2006-01-02"), a.Title, a.Company, a.Status)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
