package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/handsfree8/invoicemaker/internal/logger"
	"github.com/handsfree8/invoicemaker/internal/pdf"
	"github.com/handsfree8/invoicemaker/internal/validation"
	"github.com/handsfree8/invoicemaker/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create, list, delete and render invoices",
}

var invoiceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update an invoice",
	Long: `Create a new invoice, or update an existing one when --id is given.

Line items are passed as repeatable --item flags in the form
"description:quantity:unit-price". All inputs are validated before the
invoice is saved.`,
	Example: `  # New invoice with two line items and 8.5% tax
  invoicemaker invoice add --client "Jane Doe" \
      --item "Diagnosis:1:79" --item "Repair:1:180" --tax-rate 0.085

  # Update an existing invoice's notes
  invoicemaker invoice add --id 8f14e45f-... --client "Jane Doe" --notes "Paid on site"`,
	RunE: runInvoiceAdd,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved invoices with derived totals",
	RunE:  runInvoiceList,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete one or more invoices by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInvoiceDelete,
}

var invoicePDFCmd = &cobra.Command{
	Use:   "pdf [id]",
	Short: "Render an invoice as a PDF document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicePDF,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceAddCmd, invoiceListCmd, invoiceDeleteCmd, invoicePDFCmd)

	invoiceAddCmd.Flags().String("id", "", "Invoice id to update (default: create new)")
	invoiceAddCmd.Flags().String("customer", "", "Customer id to prefill the invoice from")
	invoiceAddCmd.Flags().String("number", "", "Invoice number (default: generated)")
	invoiceAddCmd.Flags().String("client", "", "Client name")
	invoiceAddCmd.Flags().String("date", "", "Invoice date, YYYY-MM-DD (default: today)")
	invoiceAddCmd.Flags().StringArray("item", nil, `Line item as "description:quantity:unit-price" (repeatable)`)
	invoiceAddCmd.Flags().String("discount", "0", "Fixed discount amount")
	invoiceAddCmd.Flags().String("tax-rate", "0", "Tax rate as a decimal fraction, e.g. 0.085")
	invoiceAddCmd.Flags().String("notes", "", "Free-text notes")
	invoiceAddCmd.Flags().String("payment-method", "", "Payment method: cash, card, check, zelle or other")
	invoiceAddCmd.Flags().String("terms", "", "Free-text payment terms")

	invoiceListCmd.Flags().Bool("by-date", false, "Sort most recent first")
	invoiceListCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	invoicePDFCmd.Flags().StringP("output", "o", "", "Output PDF path (default: invoice_<number>.pdf)")
	invoicePDFCmd.Flags().String("business", "", "Business name printed in the header")
}

// invoiceView is the JSON output shape for a single invoice, including the
// derived financial fields.
type invoiceView struct {
	ID            string            `json:"id"`
	Number        string            `json:"number"`
	Date          time.Time         `json:"date"`
	ClientName    string            `json:"client_name"`
	Items         []models.LineItem `json:"items"`
	SubTotal      decimal.Decimal   `json:"sub_total"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Terms         string            `json:"terms,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

func viewOfInvoice(inv models.Invoice) invoiceView {
	v := invoiceView{
		ID:         inv.ID.String(),
		Number:     inv.Number,
		Date:       inv.Date,
		ClientName: inv.ClientName,
		Items:      inv.Items,
		SubTotal:   inv.SubTotal(),
		Discount:   inv.Discount,
		Tax:        inv.Tax(),
		Total:      inv.Total(),
		Notes:      inv.Notes,
	}
	if inv.PaymentMethod != nil {
		v.PaymentMethod = string(*inv.PaymentMethod)
	}
	if inv.Terms != nil {
		v.Terms = *inv.Terms
	}
	return v
}

func runInvoiceAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice-add")

	a, err := openApp()
	if err != nil {
		return err
	}

	idFlag, _ := cmd.Flags().GetString("id")
	customerFlag, _ := cmd.Flags().GetString("customer")
	number, _ := cmd.Flags().GetString("number")
	client, _ := cmd.Flags().GetString("client")
	dateFlag, _ := cmd.Flags().GetString("date")
	itemSpecs, _ := cmd.Flags().GetStringArray("item")
	discountFlag, _ := cmd.Flags().GetString("discount")
	taxRateFlag, _ := cmd.Flags().GetString("tax-rate")
	notes, _ := cmd.Flags().GetString("notes")
	methodFlag, _ := cmd.Flags().GetString("payment-method")
	terms, _ := cmd.Flags().GetString("terms")

	inv := models.NewInvoice(number)
	if customerFlag != "" {
		customerID, err := uuid.Parse(customerFlag)
		if err != nil {
			return fmt.Errorf("invalid customer id: %w", err)
		}
		c, ok := a.customers.Find(customerID)
		if !ok {
			return fmt.Errorf("customer %s not found", customerID)
		}
		inv = models.NewInvoiceForCustomer(c)
	}
	if idFlag != "" {
		id, err := uuid.Parse(idFlag)
		if err != nil {
			return fmt.Errorf("invalid invoice id: %w", err)
		}
		// Editing reuses the identity; the upsert replaces in place.
		if existing, ok := a.invoices.Find(id); ok {
			inv = existing
		} else {
			inv.ID = id
		}
	}
	if number == "" {
		if inv.Number == "" {
			inv.Number = models.GenerateInvoiceNumber(time.Now())
		}
	} else {
		inv.Number = number
	}
	if client != "" {
		inv.ClientName = client
	}
	if notes != "" {
		inv.Notes = notes
	}
	if terms != "" {
		inv.Terms = &terms
	}
	if dateFlag != "" {
		date, err := time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dateFlag)
		}
		inv.Date = date
	}
	if methodFlag != "" {
		method, ok := models.ParsePaymentMethod(methodFlag)
		if !ok {
			return fmt.Errorf("unknown payment method %q", methodFlag)
		}
		inv.PaymentMethod = &method
	}

	// Only explicitly passed flags touch the amounts, so editing an invoice
	// with unrelated flags leaves its discount and tax rate alone.
	if cmd.Flags().Changed("discount") {
		discount, err := decimal.NewFromString(discountFlag)
		if err != nil {
			return fmt.Errorf("invalid discount %q", discountFlag)
		}
		inv.Discount = discount
	}
	if cmd.Flags().Changed("tax-rate") {
		taxRate, err := decimal.NewFromString(taxRateFlag)
		if err != nil {
			return fmt.Errorf("invalid tax rate %q", taxRateFlag)
		}
		inv.TaxRate = taxRate
	}

	if len(itemSpecs) > 0 {
		items, err := parseItemSpecs(itemSpecs)
		if err != nil {
			return err
		}
		inv.Items = items
	}

	if err := validateInvoice(inv); err != nil {
		return err
	}

	due, err := a.invoices.Save(inv)
	if err != nil {
		return err
	}
	a.autoBackupIfDue(due, log)

	log.Info().
		Str("invoice", inv.Number).
		Str("total", inv.Total().StringFixed(2)).
		Msg("Invoice saved")
	return outputJSON(viewOfInvoice(inv), "", log)
}

// validateInvoice runs the form-level validation rules before a save.
func validateInvoice(inv models.Invoice) error {
	checks := []validation.Result{
		validation.InvoiceNumber(inv.Number),
		validation.ClientName(inv.ClientName),
	}
	for _, item := range inv.Items {
		checks = append(checks,
			validation.ItemDescription(item.Description),
			validation.Quantity(item.Quantity),
			validation.UnitPrice(item.UnitPrice),
		)
	}
	for _, result := range checks {
		if !result.IsValid() {
			return fmt.Errorf("validation failed: %s", result.ErrorMessage())
		}
	}
	return nil
}

// parseItemSpecs parses "description:quantity:unit-price" line item specs.
// The description may itself contain colons; quantity and price are taken
// from the right.
func parseItemSpecs(specs []string) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(specs))
	for _, spec := range specs {
		priceSep := strings.LastIndex(spec, ":")
		if priceSep < 0 {
			return nil, fmt.Errorf("invalid item %q (expected description:quantity:unit-price)", spec)
		}
		qtySep := strings.LastIndex(spec[:priceSep], ":")
		if qtySep < 0 {
			return nil, fmt.Errorf("invalid item %q (expected description:quantity:unit-price)", spec)
		}

		description := spec[:qtySep]
		quantity, err := decimal.NewFromString(spec[qtySep+1 : priceSep])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in item %q", spec)
		}
		price, err := decimal.NewFromString(spec[priceSep+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid unit price in item %q", spec)
		}
		items = append(items, models.NewLineItem(description, quantity, price))
	}
	return items, nil
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice-list")

	a, err := openApp()
	if err != nil {
		return err
	}

	byDate, _ := cmd.Flags().GetBool("by-date")
	outputPath, _ := cmd.Flags().GetString("output")

	invoices := a.invoices.Invoices()
	if byDate {
		invoices = a.invoices.SortedByDate()
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, viewOfInvoice(inv))
	}
	return outputJSON(views, outputPath, log)
}

func runInvoiceDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice-delete")

	a, err := openApp()
	if err != nil {
		return err
	}

	targets := make([]models.Invoice, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid invoice id %q: %w", arg, err)
		}
		targets = append(targets, models.Invoice{ID: id})
	}

	if err := a.invoices.DeleteMany(targets); err != nil {
		return err
	}
	log.Info().Int("requested", len(targets)).Msg("Invoices deleted")
	return nil
}

func runInvoicePDF(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice-pdf")

	a, err := openApp()
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}
	inv, ok := a.invoices.Find(id)
	if !ok {
		return fmt.Errorf("invoice %s not found", id)
	}

	business, _ := cmd.Flags().GetString("business")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("invoice_%s.pdf", inv.Number)
	}

	data, err := pdf.NewRenderer(business).Render(inv)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	log.Info().
		Str("invoice", inv.Number).
		Str("file", outputPath).
		Int("bytes", len(data)).
		Msg("Invoice PDF written")
	fmt.Println(outputPath)
	return nil
}
