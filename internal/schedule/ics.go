package schedule

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

// ICSProductID identifies the calendar producer in exported files
const ICSProductID = "-//eco-scheduler//Waste Disposal Calendar//EN"

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`, "\r", "")

// ExportICS writes the owner's events as an iCalendar file of all-day events
func (s *Scheduler) ExportICS(ctx context.Context, owner string, w io.Writer) error {
	events, err := s.Events(ctx, owner)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	stamp := s.now().UTC().Format("20060102T150405Z")

	writeContentLine(bw, "BEGIN:VCALENDAR")
	writeContentLine(bw, "VERSION:2.0")
	writeContentLine(bw, "PRODID:"+ICSProductID)
	writeContentLine(bw, "CALSCALE:GREGORIAN")
	writeContentLine(bw, "X-WR-CALNAME:Waste disposal")

	for _, e := range events {
		title := icsEscaper.Replace(e.Title)
		writeContentLine(bw, "BEGIN:VEVENT")
		writeContentLine(bw, "UID:"+e.ID+"@eco-scheduler")
		writeContentLine(bw, "DTSTAMP:"+stamp)
		writeContentLine(bw, "DTSTART;VALUE=DATE:"+e.Date.Format("20060102"))
		writeContentLine(bw, "DTEND;VALUE=DATE:"+e.Date.AddDate(0, 0, 1).Format("20060102"))
		writeContentLine(bw, "SUMMARY:"+title)
		writeContentLine(bw, "DESCRIPTION:Dispose of "+title)
		writeContentLine(bw, "END:VEVENT")
	}

	writeContentLine(bw, "END:VCALENDAR")
	return bw.Flush()
}

// maxLineOctets is the longest content line allowed before folding
const maxLineOctets = 75

// writeContentLine writes a CRLF-terminated line, folding it into
// continuation lines that start with a space. Folds never split a UTF-8 sequence.
func writeContentLine(bw *bufio.Writer, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		bw.WriteString(line[:cut])
		bw.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts toward the next line
		limit = maxLineOctets - 1
	}
	bw.WriteString(line)
	bw.WriteString("\r\n")
}
