package intake

import (
	"fmt"

	"github.com/hpungsan/scout/internal/referral"
)

const textWelcome = "👋 Hi! Welcome to the Magic Scout bot.\n\n" +
	"We are looking for a technical stream operator. Let's check whether we are a good fit.\n\n" +
	"To begin, send your first and last name:"

const (
	textAskDOB          = "Great. Send your date of birth (for example, 15.08.2001):"
	textAskEnglish      = "How would you rate your English? (For example: B1, intermediate)"
	textAskCPU          = "On to hardware 💻\nWhat CPU do you have? (We need an Intel i5 10th gen or an AMD equivalent):"
	textAskGPU          = "What graphics card do you have? (Minimum GTX 1060):"
	textAskConnectivity = "Do you have a stable fast internet connection and a headset with a microphone?"
	textAskPhone        = "Last step! Send your phone number (tap the button below or type the digits)."
	textBadPhone        = "⚠️ Please enter a valid phone number (digits only, a leading plus is fine) or use the '📱 Share number' button."
	textSubmitted       = "✅ Your application has been sent! Please wait for a reply."
	textAlreadyApplied  = "⚠️ You have already applied! Please wait for our manager to get back to you."

	// ButtonYes and ButtonNo label the connectivity reply keyboard.
	ButtonYes = "Yes, I have everything"
	ButtonNo  = "No"

	// ButtonShareContact labels the share-contact reply keyboard.
	ButtonShareContact = "📱 Share number"
)

// prompt is the question asked on entering step.
func prompt(step Step) Reply {
	switch step {
	case StepAwaitingName:
		return Reply{Text: textWelcome}
	case StepAwaitingDOB:
		return Reply{Text: textAskDOB}
	case StepAwaitingEnglish:
		return Reply{Text: textAskEnglish}
	case StepAwaitingCPU:
		return Reply{Text: textAskCPU}
	case StepAwaitingGPU:
		return Reply{Text: textAskGPU}
	case StepAwaitingConnectivity:
		return Reply{Text: textAskConnectivity, Keyboard: KeyboardYesNo}
	case StepAwaitingPhone:
		return Reply{Text: textAskPhone, Keyboard: KeyboardShareContact}
	case StepCompleted:
		return Reply{Text: textSubmitted, Keyboard: KeyboardRemove}
	default:
		return Reply{}
	}
}

func operatorGreeting(name, botUsername string, operatorID int64) string {
	return fmt.Sprintf("👋 Hi, %s!\n\n🔗 Your personal referral link:\n%s\n\nYour review panel is available via /admin",
		name, referral.Link(botUsername, operatorID))
}

func newApplicationNotice(fullName string) string {
	return fmt.Sprintf("🚨 New application from %s!\nCheck the /admin menu", fullName)
}
