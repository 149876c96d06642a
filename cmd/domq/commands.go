package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/romdo/go-dom"
)

var findCmd = &cobra.Command{
	Use:   "find <file> <selector>",
	Short: "Print the outer HTML of each matching element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, args[0], args[1], func(el *dom.Element) (string, bool) {
			return dom.GetOuterHTML(el), true
		})
	},
}

var textCmd = &cobra.Command{
	Use:   "text <file> <selector>",
	Short: "Print the text content of each matching element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, args[0], args[1], func(el *dom.Element) (string, bool) {
			return dom.GetText(el), true
		})
	},
}

var attrCmd = &cobra.Command{
	Use:   "attr <file> <selector> <name>",
	Short: "Print an attribute of each matching element having it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, args[0], args[1], func(el *dom.Element) (string, bool) {
			return dom.GetAttribute(el, args[2])
		})
	},
}

var styleCmd = &cobra.Command{
	Use:   "style <file> <selector> <property>",
	Short: "Print the computed value of a CSS property of each matching element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, args[0], args[1], func(el *dom.Element) (string, bool) {
			return dom.GetStyle(el, args[2]), true
		})
	},
}

var setAttrCmd = &cobra.Command{
	Use:   "set-attr <file> <selector> <name> <value>",
	Short: "Set an attribute on every matching element",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, args[0], args[1], func(el *dom.Element) error {
			dom.SetAttribute(el, args[2], args[3])

			return nil
		})
	},
}

var addClassCmd = &cobra.Command{
	Use:   "add-class <file> <selector> <class>",
	Short: "Add a class to every matching element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, args[0], args[1], func(el *dom.Element) error {
			return dom.AddClass(el, args[2])
		})
	},
}

var removeClassCmd = &cobra.Command{
	Use:   "remove-class <file> <selector> <class>",
	Short: "Remove a class from every matching element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, args[0], args[1], func(el *dom.Element) error {
			return dom.RemoveClass(el, args[2])
		})
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <file> <selector> <position> <html>",
	Short: "Insert HTML relative to every matching element",
	Long: `Insert HTML relative to every matching element. The position is one of
beforebegin, afterbegin, beforeend and afterend.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, args[0], args[1], func(el *dom.Element) error {
			return dom.InsertHTML(el, dom.InsertPosition(args[2]), args[3])
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <file> <selector>",
	Short: "Remove every matching element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(cmd, args[0], args[1], func(el *dom.Element) error {
			dom.Remove(el)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(
		findCmd,
		textCmd,
		attrCmd,
		styleCmd,
		setAttrCmd,
		addClassCmd,
		removeClassCmd,
		insertCmd,
		removeCmd,
	)
}

// query prints one line per matching element for which value returns true.
func query(
	cmd *cobra.Command,
	path, selector string,
	value func(el *dom.Element) (string, bool),
) error {
	lines, err := collect(cmd, path, selector, value)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}

	return nil
}

// collect returns the values of the matching elements of the document at
// path, in document order.
func collect(
	cmd *cobra.Command,
	path, selector string,
	value func(el *dom.Element) (string, bool),
) ([]string, error) {
	doc, err := loadDocument(cmd, path)
	if err != nil {
		return nil, err
	}

	list, err := dom.FindAll(doc, selector)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(list))
	for _, el := range list {
		if v, ok := value(el); ok {
			lines = append(lines, v)
		}
	}

	return lines, nil
}

// edit applies fn to every matching element, then prints the document.
func edit(
	cmd *cobra.Command,
	path, selector string,
	fn func(el *dom.Element) error,
) error {
	doc, err := loadDocument(cmd, path)
	if err != nil {
		return err
	}

	list, err := dom.FindAll(doc, selector)
	if err != nil {
		return err
	}

	var editErr error
	applied := false
	dom.CallFnWithElementsIfExist(func(refs ...dom.Ref) {
		for _, el := range refs[0].Elements() {
			if editErr = fn(el); editErr != nil {
				return
			}
		}
		applied = true
	}, []dom.Ref{dom.Collection(list)})

	if editErr != nil {
		return editErr
	}
	if !applied {
		logger.Warn("No element matches the selector", zap.String("selector", selector))
	}

	if err := doc.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	return nil
}
