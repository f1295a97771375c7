package cli

import (
	"fmt"

	"github.com/diillson/campaign-analytics-go/pkg/console"
	"github.com/diillson/campaign-analytics-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
   ____                            _               _                _       _   _
  / ___|__ _ _ __ ___  _ __   __ _(_) __ _ _ __   / \   _ __   __ _| |_   _| |_(_) ___ ___
 | |   / _' | '_ ' _ \| '_ \ / _' | |/ _' | '_ \ / _ \ | '_ \ / _' | | | | | __| |/ __/ __|
 | |__| (_| | | | | | | |_) | (_| | | (_| | | | / ___ \| | | | (_| | | |_| | |_| | (__\__ \
  \____\__,_|_| |_| |_| .__/ \__,_|_|\__, |_| |_/_/   \_\_| |_|\__,_|_|\__, |\__|_|\___|___/
                      |_|            |___/                             |___/
`
	fmt.Println(console.BrightMagenta(banner))
	fmt.Println(console.BrightCyan(fmt.Sprintf("Campaign Analytics CLI (v%s)", version.FormatVersion())))
}
