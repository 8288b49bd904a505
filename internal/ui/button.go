package ui

// renderButton draws a button. A loading button swaps its label for the loader.
func (m Model) renderButton(label string, primary, loading bool) string {
	styles := m.theme.Styles()
	style := styles.Button
	if primary {
		style = styles.ButtonPrimary
	}
	if loading {
		label = m.spinner.View() + label
	}
	return style.Render(label)
}

// renderLoader is the spinner followed by a caption.
func (m Model) renderLoader(caption string) string {
	styles := m.theme.Styles()
	return styles.AccentText.Render(m.spinner.View()) + styles.MutedText.Render(caption)
}
