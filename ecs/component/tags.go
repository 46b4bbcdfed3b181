package component

type PirateTag struct{}

var PirateTagComponent = NewComponent[PirateTag]()

type PlanetTag struct{}

var PlanetTagComponent = NewComponent[PlanetTag]()
