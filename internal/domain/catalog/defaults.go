package catalog

const iconHost = "https://storage.googleapis.com/gemini-95-icons/"

// Defaults returns the apps of the stock desktop
func Defaults() []App {
	return []App{
		{ID: "myComputer", Title: "My Gemtop", Icon: iconHost + "mycomputer.png"},
		{ID: "chrome", Title: "Chrome", Icon: iconHost + "chrome-icon-2.png"},
		{ID: "notepad", Title: "GemNotes", Icon: iconHost + "GemNotes.png"},
		{ID: "paint", Title: "GemPaint", Icon: iconHost + "gempaint.png"},
		{ID: "doom", Title: "Doom II", Icon: "https://64.media.tumblr.com/1d89dfa76381e5c14210a2149c83790d/7a15f84c681c1cf9-c1/s540x810/86985984be99d5591e0cbc0dea6f05ffa3136dac.png", Focusable: true},
		{ID: "gemini", Title: "Gemini App", Icon: iconHost + "GeminiChatRetro.png"},
		{ID: "minesweeper", Title: "GemSweeper", Icon: iconHost + "gemsweeper.png"},
		{ID: "imageViewer", Title: "Image Viewer", Icon: "https://win98icons.alexmeub.com/icons/png/display_properties-4.png", Hidden: true},
		{ID: "mediaPlayer", Title: "GemPlayer", Icon: iconHost + "ytmediaplayer.png"},
		{ID: "calculator", Title: "Calculator", Icon: "https://win98icons.alexmeub.com/icons/png/calculator-0.png"},
	}
}
