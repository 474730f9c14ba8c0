package cli

// SummaryCmd represents 'raytag summary'.
type SummaryCmd struct{}

func (c *SummaryCmd) Run(env *Env) error {
	rc, err := env.LoadContext()
	if err != nil {
		return err
	}
	rc.PrintSummary(env.Out)
	return nil
}
