package catalogue

import (
	"fmt"
	"strings"
)

const rule = "----------"

// FormatBookDetail renders a joined book row as a display block.
func FormatBookDetail(d *BookDetail) []string {
	return []string{
		rule,
		fmt.Sprintf("Book ID: %d", d.ID),
		"Title: " + d.Title,
		"Author: " + d.Author.Name,
		fmt.Sprintf("Author ID: %d", d.Author.ID),
		"Author Country: " + d.Author.Country,
		fmt.Sprintf("Current Stock: %d", d.Quantity),
		rule,
	}
}

// ListHeader is the header line matching PrettyBook rows.
func ListHeader() string {
	return fmt.Sprintf("%-5s %-40s %-25s %-15s %5s", "ID", "Title", "Author", "Country", "Stock")
}

// PrettyBook formats a book for lists.
func PrettyBook(d *BookDetail) string {
	return fmt.Sprintf("%-5d %-40s %-25s %-15s %5d",
		d.ID,
		truncateString(d.Title, 40),
		truncateString(d.Author.Name, 25),
		truncateString(d.Author.Country, 15),
		d.Quantity)
}

func formatSimilarBook(d *BookDetail) string {
	return fmt.Sprintf("Title: %s, Author: %s, Author Country: %s", d.Title, d.Author.Name, d.Author.Country)
}

func formatAffectedBook(b *Book) string {
	return fmt.Sprintf("ID: %d, Title: %s", b.ID, b.Title)
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Rule returns a separator of the given width.
func Rule(width int) string { return strings.Repeat("-", width) }
