package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/handsfree8/invoicemaker/internal/logger"
	"github.com/handsfree8/invoicemaker/internal/storage"
	"github.com/handsfree8/invoicemaker/internal/validation"
	"github.com/handsfree8/invoicemaker/pkg/models"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customer records",
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update a customer",
	Long: `Create a new customer, or update an existing one when --id is given.
Name, phone, email and ZIP code are validated before the customer is saved.`,
	RunE: runCustomerAdd,
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Long: `List customers, optionally sorted (--sort name|added|service) or
filtered to the derived views: --recent shows customers added in the last 30
days, --follow-up shows customers without service in the last six months.`,
	RunE: runCustomerList,
}

var customerSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search customers by name, phone, email or city",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerSearch,
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a customer by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerDelete,
}

var customerHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show a customer's invoice history",
	Long: `Show the customer's invoices and aggregate service history. Invoices
are matched to the customer by client name (case-insensitive); there is no
foreign key, so a renamed customer will not match their older invoices.`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomerHistory,
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerAddCmd, customerListCmd, customerSearchCmd, customerDeleteCmd, customerHistoryCmd)

	customerAddCmd.Flags().String("id", "", "Customer id to update (default: create new)")
	customerAddCmd.Flags().String("name", "", "Customer name")
	customerAddCmd.Flags().String("phone", "", "Phone number")
	customerAddCmd.Flags().String("email", "", "Email address")
	customerAddCmd.Flags().String("address", "", "Street address")
	customerAddCmd.Flags().String("city", "", "City")
	customerAddCmd.Flags().String("zip", "", "ZIP code")
	customerAddCmd.Flags().String("notes", "", "Free-text notes")
	customerAddCmd.Flags().String("last-service", "", "Last service date, YYYY-MM-DD")

	customerListCmd.Flags().String("sort", "", "Sort order: name, added or service")
	customerListCmd.Flags().Bool("recent", false, "Only customers added in the last 30 days")
	customerListCmd.Flags().Bool("follow-up", false, "Only customers needing follow-up")
	customerListCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	customerSearchCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

// customerView is the JSON output shape for a single customer, including
// the derived display fields.
type customerView struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	DisplayName     string     `json:"display_name"`
	Phone           string     `json:"phone,omitempty"`
	FormattedPhone  string     `json:"formatted_phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	FullAddress     string     `json:"full_address,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DateAdded       time.Time  `json:"date_added"`
	LastServiceDate *time.Time `json:"last_service_date,omitempty"`
	IsNew           bool       `json:"is_new"`
}

func viewOfCustomer(c models.Customer) customerView {
	return customerView{
		ID:              c.ID.String(),
		Name:            c.Name,
		DisplayName:     c.DisplayName(),
		Phone:           c.Phone,
		FormattedPhone:  c.FormattedPhone(),
		Email:           c.Email,
		FullAddress:     c.FullAddress(),
		Notes:           c.Notes,
		DateAdded:       c.DateAdded,
		LastServiceDate: c.LastServiceDate,
		IsNew:           c.IsNew(time.Now()),
	}
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer-add")

	a, err := openApp()
	if err != nil {
		return err
	}

	idFlag, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")
	phone, _ := cmd.Flags().GetString("phone")
	email, _ := cmd.Flags().GetString("email")
	address, _ := cmd.Flags().GetString("address")
	city, _ := cmd.Flags().GetString("city")
	zip, _ := cmd.Flags().GetString("zip")
	notes, _ := cmd.Flags().GetString("notes")
	lastService, _ := cmd.Flags().GetString("last-service")

	c := models.NewCustomer(name)
	if idFlag != "" {
		id, err := uuid.Parse(idFlag)
		if err != nil {
			return fmt.Errorf("invalid customer id: %w", err)
		}
		if existing, ok := a.customers.Find(id); ok {
			c = existing
		} else {
			c.ID = id
		}
	}
	if name != "" {
		c.Name = name
	}
	if phone != "" {
		c.Phone = phone
	}
	if email != "" {
		c.Email = email
	}
	if address != "" {
		c.Address = address
	}
	if city != "" {
		c.City = city
	}
	if zip != "" {
		c.ZipCode = zip
	}
	if notes != "" {
		c.Notes = notes
	}
	if lastService != "" {
		date, err := time.Parse("2006-01-02", lastService)
		if err != nil {
			return fmt.Errorf("invalid last service date %q (expected YYYY-MM-DD)", lastService)
		}
		c.LastServiceDate = &date
	}

	for _, result := range []validation.Result{
		validation.Name(c.Name),
		validation.Phone(c.Phone),
		validation.Email(c.Email),
		validation.ZipCode(c.ZipCode),
	} {
		if !result.IsValid() {
			return fmt.Errorf("validation failed: %s", result.ErrorMessage())
		}
	}

	if err := a.customers.Save(c); err != nil {
		return err
	}

	log.Info().Str("customer", c.DisplayName()).Msg("Customer saved")
	return outputJSON(viewOfCustomer(c), "", log)
}

func runCustomerList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer-list")

	a, err := openApp()
	if err != nil {
		return err
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	recent, _ := cmd.Flags().GetBool("recent")
	followUp, _ := cmd.Flags().GetBool("follow-up")
	outputPath, _ := cmd.Flags().GetString("output")

	var customers []models.Customer
	switch {
	case recent:
		customers = a.customers.Recent()
	case followUp:
		customers = a.customers.NeedingFollowUp()
	case sortFlag != "":
		option, err := storage.ParseSortOption(sortFlag)
		if err != nil {
			return err
		}
		customers = a.customers.Sorted(option)
	default:
		customers = a.customers.Customers()
	}

	views := make([]customerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, viewOfCustomer(c))
	}
	return outputJSON(views, outputPath, log)
}

func runCustomerSearch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer-search")

	a, err := openApp()
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	matches := a.customers.Search(args[0])

	views := make([]customerView, 0, len(matches))
	for _, c := range matches {
		views = append(views, viewOfCustomer(c))
	}
	return outputJSON(views, outputPath, log)
}

func runCustomerDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer-delete")

	a, err := openApp()
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	if err := a.customers.Delete(models.Customer{ID: id}); err != nil {
		return err
	}

	log.Info().Str("id", id.String()).Msg("Customer deleted")
	return nil
}

// historyView is the JSON output shape for a customer's service history.
type historyView struct {
	Customer       customerView    `json:"customer"`
	Invoices       []invoiceView   `json:"invoices"`
	ServiceCount   int             `json:"service_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	AverageInvoice decimal.Decimal `json:"average_invoice"`
	LastService    *time.Time      `json:"last_service,omitempty"`
}

func runCustomerHistory(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer-history")

	a, err := openApp()
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	c, ok := a.customers.Find(id)
	if !ok {
		return fmt.Errorf("customer %s not found", id)
	}

	record := models.ServiceHistory(c, a.invoices.Invoices())
	view := historyView{
		Customer:       viewOfCustomer(c),
		Invoices:       make([]invoiceView, 0, len(record.Invoices)),
		ServiceCount:   record.ServiceCount(),
		TotalSpent:     record.TotalSpent(),
		AverageInvoice: record.AverageInvoice(),
	}
	for _, inv := range record.Invoices {
		view.Invoices = append(view.Invoices, viewOfInvoice(inv))
	}
	if last, ok := record.LastServiceDate(); ok {
		view.LastService = &last
	}
	return outputJSON(view, "", log)
}
