package xr

import "github.com/roach88/xrq/internal/xrtype"

// Assignment sets Property to Value in an Insert, Update or OnConflict.
type Assignment struct {
	Location `json:"-"`
	Property Property   `json:"property"`
	Value    Expression `json:"value"`
}

// Insert adds a row to Entity. Alias is bound in Assignments.
// Exclusions lists properties left to database defaults.
type Insert struct {
	Location    `json:"-"`
	Entity      Entity       `json:"entity"`
	Alias       Ident        `json:"alias"`
	Assignments []Assignment `json:"assignments"`
	Exclusions  []Property   `json:"exclusions"`
}

// Update modifies rows of Entity. Alias is bound in Assignments.
type Update struct {
	Location    `json:"-"`
	Entity      Entity       `json:"entity"`
	Alias       Ident        `json:"alias"`
	Assignments []Assignment `json:"assignments"`
	Exclusions  []Property   `json:"exclusions"`
}

// Delete removes rows of Entity.
type Delete struct {
	Location `json:"-"`
	Entity   Entity `json:"entity"`
	Alias    Ident  `json:"alias"`
}

// OnConflict is an upsert. Insert.Alias is bound in Target; Excluded and
// Existing are bound in Assignments when Resolution is ConflictUpdate.
type OnConflict struct {
	Location    `json:"-"`
	Insert      Insert             `json:"insert"`
	Target      []Property         `json:"target"`
	Resolution  ConflictResolution `json:"resolution"`
	Excluded    Ident              `json:"excluded"`
	Existing    Ident              `json:"existing"`
	Assignments []Assignment       `json:"assignments"`
}

// FilteredAction restricts an Update or Delete by Filter with Alias bound.
type FilteredAction struct {
	Location `json:"-"`
	Action   Action     `json:"action"`
	Alias    Ident      `json:"alias"`
	Filter   Expression `json:"filter"`
}

// Returning produces Output from every modified row with Alias bound.
type Returning struct {
	Location `json:"-"`
	Action   Action     `json:"action"`
	Alias    Ident      `json:"alias"`
	Output   Expression `json:"output"`
}

// TagForSqlAction stands in for a dynamic action fragment.
type TagForSqlAction struct {
	Location `json:"-"`
	ID       string      `json:"id"`
	Type     xrtype.Type `json:"type"`
}

// Batching runs Action once per element of a batch bound to Alias.
type Batching struct {
	Location `json:"-"`
	Alias    Ident  `json:"alias"`
	Action   Action `json:"action"`
}

// Free is a raw SQL fragment: Parts interleaved with Params
// (len(Parts) == len(Params)+1). Pure marks the fragment side-effect free;
// Transparent marks it safe to look through during rewrites.
// Free can stand in query, expression or action position.
type Free struct {
	Location    `json:"-"`
	Parts       []string    `json:"parts"`
	Params      []XR        `json:"params"`
	Pure        bool        `json:"pure"`
	Transparent bool        `json:"transparent"`
	Type        xrtype.Type `json:"type"`
}

func (a Assignment) XRType() xrtype.Type      { return typeOf(a.Value) }
func (i Insert) XRType() xrtype.Type          { return i.Entity.Type }
func (u Update) XRType() xrtype.Type          { return u.Entity.Type }
func (d Delete) XRType() xrtype.Type          { return d.Entity.Type }
func (o OnConflict) XRType() xrtype.Type      { return o.Insert.XRType() }
func (f FilteredAction) XRType() xrtype.Type  { return typeOf(f.Action) }
func (r Returning) XRType() xrtype.Type       { return typeOf(r.Output) }
func (t TagForSqlAction) XRType() xrtype.Type { return xrtype.OrUnknown(t.Type) }
func (b Batching) XRType() xrtype.Type        { return typeOf(b.Action) }
func (f Free) XRType() xrtype.Type            { return xrtype.OrUnknown(f.Type) }

func (Insert) actionNode()          {}
func (Update) actionNode()          {}
func (Delete) actionNode()          {}
func (OnConflict) actionNode()      {}
func (FilteredAction) actionNode()  {}
func (Returning) actionNode()       {}
func (TagForSqlAction) actionNode() {}
func (Free) actionNode()            {}

func (Free) exprNode()        {}
func (Free) queryNode()       {}
func (Free) queryOrExprNode() {}
