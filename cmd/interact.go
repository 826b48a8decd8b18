/*
Copyright © 2025 The ai-story-tool authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// consoleInteractor implements loop.Interactor over a terminal.
type consoleInteractor struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsoleInteractor(in io.Reader, out io.Writer) *consoleInteractor {
	return &consoleInteractor{in: bufio.NewReader(in), out: out}
}

func (c *consoleInteractor) Present(version int, content string) {
	fmt.Fprintf(c.out, "\n--- Version %d ---\n\n%s\n\n", version, content)
}

func (c *consoleInteractor) WantsFeedback() (bool, error) {
	return c.askYesNo("Would you like to give feedback and refine the story? [y/N]: ")
}

func (c *consoleInteractor) ReadFeedback() (string, error) {
	fmt.Fprint(c.out, "Feedback: ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadRating parses the next line as an integer. Unparseable input returns 0,
// which the controller rejects and re-asks.
func (c *consoleInteractor) ReadRating() (int, error) {
	fmt.Fprint(c.out, "Rating (1-5): ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return 0, err
	}
	rating, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintln(c.out, "Please enter a whole number between 1 and 5.")
		return 0, nil
	}
	return rating, nil
}

func (c *consoleInteractor) IsSatisfied() (bool, error) {
	return c.askYesNo("Are you satisfied with this version? [y/N]: ")
}

func (c *consoleInteractor) ShowReport(report string) {
	fmt.Fprintf(c.out, "\n%s\n", report)
}

func (c *consoleInteractor) askYesNo(question string) (bool, error) {
	fmt.Fprint(c.out, question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
