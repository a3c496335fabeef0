package embedded

import (
	_ "embed"
)

// Prompt templates for melody search
//
//go:embed data/prompts/melody_system_prompt.txt
var MelodySystemPromptTxt []byte

//go:embed data/prompts/melody_search.tmpl
var MelodySearchTmpl []byte

//go:embed data/prompts/melody_more_like_these.tmpl
var MelodyMoreLikeTheseTmpl []byte
