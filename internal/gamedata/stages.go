package gamedata

// StageDef defines a stage as stored in data: enemy IDs in encounter order.
type StageDef struct {
	Number  int      `json:"number" yaml:"number"`
	Name    string   `json:"name" yaml:"name"`
	Enemies []string `json:"enemies" yaml:"enemies"`
	IsLast  bool     `json:"isLast" yaml:"isLast"`
}

// Stage is a resolved stage definition. It is built once when a stage loads
// and is not modified for the rest of the stage.
type Stage struct {
	Number  int
	Name    string
	Enemies []*EnemyDef
	IsLast  bool
}

// StagesFile represents the structure of stages.json.
type StagesFile struct {
	Stages []StageDef `json:"stages" yaml:"stages"`
}

// LoadStages loads stage definitions from the embedded stages.json file.
func LoadStages() ([]StageDef, error) {
	file, err := Load[StagesFile]("stages.json")
	if err != nil {
		return nil, err
	}
	return file.Stages, nil
}

// Pack is an external content pack carrying its own enemies and stages.
type Pack struct {
	Enemies []EnemyDef `json:"enemies" yaml:"enemies"`
	Stages  []StageDef `json:"stages" yaml:"stages"`
}

// LoadPack reads a content pack from a JSON or YAML file.
func LoadPack(path string) (Pack, error) {
	return LoadFile[Pack](path)
}
