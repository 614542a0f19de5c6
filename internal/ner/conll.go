package ner

import (
	"bufio"
	"fmt"
	"io"
)

// WriteCoNLL writes labeled messages in CoNLL format: one "token label"
// pair per line, a blank line after each message.
func WriteCoNLL(w io.Writer, messages [][]LabeledToken) error {
	bw := bufio.NewWriter(w)
	for _, msg := range messages {
		for _, lt := range msg {
			if _, err := fmt.Fprintf(bw, "%s %s\n", lt.Token, lt.Label); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}
