package reminder

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

type reminderData struct {
	Title string
	Date  string
	Year  int
}

var textTemplate = texttemplate.Must(texttemplate.New("text").Parse(`Eco Scheduler - Waste Disposal Reminder

Hello,

This is a reminder about your waste disposal task scheduled for today, {{.Date}}.

Task: {{.Title}}
Date: {{.Date}}

Proper waste disposal protects the environment and keeps your community clean.

(c) {{.Year}} Eco Scheduler
You are receiving this email because you scheduled a waste disposal task.
`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Eco Scheduler Reminder</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #2E7D32;">Waste Disposal Reminder</h1>
    <p>Hello,</p>
    <p>This is a reminder about your waste disposal task scheduled for today, {{.Date}}.</p>
    <div style="background-color: #f9f9f9; border-left: 4px solid #4CAF50; padding: 15px;">
      <p><strong>Task:</strong> {{.Title}}</p>
      <p><strong>Date:</strong> {{.Date}}</p>
    </div>
    <p>Proper waste disposal protects the environment and keeps your community clean.</p>
    <p style="font-size: 12px; color: #666666;">&copy; {{.Year}} Eco Scheduler.
      You are receiving this email because you scheduled a waste disposal task.</p>
  </div>
</body>
</html>
`))
