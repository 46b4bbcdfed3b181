package component

// Sprite holds the asset reference handed to the visual collaborator. The
// simulation never interprets it.
type Sprite struct {
	Image string
}

var SpriteComponent = NewComponent[Sprite]()
