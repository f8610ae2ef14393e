package entities

// Scene identifiers of the Lyra maps the suite drives
const (
	SceneFrontEnd   = "L_LyraFrontEnd"
	SceneShooterGym = "L_ShooterGym"
)

// PageState represents the navigation state of a page object
type PageState string

const (
	PageStateUnknown   PageState = "unknown"
	PageStateLoading   PageState = "loading"
	PageStateOpened    PageState = "opened"
	PageStateNotOpened PageState = "not_opened"
)
