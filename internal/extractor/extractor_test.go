package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	archerrors "github.com/archlens/archlens/internal/errors"
	"github.com/archlens/archlens/internal/types"
)

func extract(t *testing.T, source string) []types.ClassModel {
	t.Helper()
	classes, err := ExtractFile(&types.SourceFile{
		Path:    "test/Sample.cs",
		Content: []byte(source),
		Dialect: types.DialectCSharp,
	})
	require.NoError(t, err)
	return classes
}

func TestExtractClassWithMethodsAndProperties(t *testing.T) {
	source := `
using System;
using Clinic.Domain;

namespace Clinic.Services
{
    public class PatientService : IPatientService, BaseService
    {
        private readonly IPatientRepository _repository;

        public PatientService(IPatientRepository repository)
        {
            _repository = repository;
        }

        public string Name { get; set; }
        public int Age { get; private set; }

        public async Task<Patient> GetPatientAsync(int id)
        {
            var patient = await _repository.FindAsync(id);
            return patient;
        }

        private void Validate(Patient patient, bool strict)
        {
            if (patient == null)
            {
                throw new ArgumentNullException();
            }
        }
    }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, "PatientService", c.Name)
	assert.Equal(t, types.KindClass, c.Kind)
	assert.Equal(t, "Clinic.Services", c.Namespace)
	assert.Equal(t, []string{"IPatientService", "BaseService"}, c.BaseTypes)
	assert.Equal(t, []string{"System", "Clinic.Domain"}, c.Imports)
	assert.Equal(t, []string{"IPatientRepository"}, c.CtorParamTypes)
	assert.Equal(t, []string{"IPatientRepository"}, c.FieldTypes)

	require.Len(t, c.Methods, 2)
	get := c.Methods[0]
	assert.Equal(t, "GetPatientAsync", get.Name)
	assert.Equal(t, types.VisibilityPublic, get.Visibility)
	assert.True(t, get.IsAsync)
	assert.Equal(t, 1, get.ParameterCount)

	validate := c.Methods[1]
	assert.Equal(t, "Validate", validate.Name)
	assert.Equal(t, types.VisibilityPrivate, validate.Visibility)
	assert.Equal(t, 2, validate.ParameterCount)
	assert.Equal(t, 2, validate.Complexity) // one if

	require.Len(t, c.Properties, 2)
	assert.Equal(t, "Name", c.Properties[0].Name)
	assert.Equal(t, "string", c.Properties[0].TypeName)
	assert.Equal(t, "Age", c.Properties[1].Name)
	assert.Equal(t, "int", c.Properties[1].TypeName)
}

func TestExtractInterface(t *testing.T) {
	source := `
public interface IPatientService
{
    Task<Patient> GetPatientAsync(int id);
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	assert.Equal(t, "IPatientService", classes[0].Name)
	assert.Equal(t, types.KindInterface, classes[0].Kind)
}

func TestStringLiteralBraceDoesNotCorruptScoping(t *testing.T) {
	source := `
public class First
{
    public void Render()
    {
        var template = "unmatched { brace";
    }
}

public class Second
{
    public void Run() { }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 2)
	assert.Equal(t, "First", classes[0].Name)
	assert.Equal(t, "Second", classes[1].Name)
	require.Len(t, classes[1].Methods, 1)
	assert.Equal(t, "Run", classes[1].Methods[0].Name)
}

func TestUnbalancedBracesReturnParseWarning(t *testing.T) {
	_, err := ExtractFile(&types.SourceFile{
		Path:    "test/Broken.cs",
		Content: []byte("public class Broken {\n  public void M() {\n}\n"),
	})
	require.Error(t, err)
	var warning *archerrors.ParseWarning
	require.ErrorAs(t, err, &warning)
	assert.Equal(t, "test/Broken.cs", warning.Path)
}

func TestComplexityCountsDecisionTokens(t *testing.T) {
	source := `
public class OrderProcessor
{
    public void Process(Order order)
    {
        if (order == null) { return; }
        for (int i = 0; i < 3; i++) { Step(i); }
        foreach (var line in order.Lines) { Add(line); }
        while (Pending()) { Drain(); }
        switch (order.State)
        {
            case 1: Handle(); break;
            case 2: Handle(); break;
        }
        try { Commit(); } catch (Exception e) { Rollback(); }
        var label = order.Total > 10 ? "big" : "small";
        var ok = order.Valid && order.Open || order.Forced;
    }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Methods, 1)

	m := classes[0].Methods[0]
	// if, for, foreach, while, case x2, catch, ternary, &&, || = 10 tokens.
	assert.Equal(t, 11, m.Complexity)
	assert.True(t, m.HasErrorHandling)
}

func TestExactlyKDecisionTokensYieldsKPlusOne(t *testing.T) {
	source := `
public class Branchy
{
    public void Only(bool a, bool b)
    {
        if (a) { One(); }
        if (b) { Two(); }
        if (a && b) { Both(); }
    }
}
`
	classes := extract(t, source)
	m := classes[0].Methods[0]
	assert.Equal(t, 5, m.Complexity) // 3 ifs + 1 && = 4 tokens, k+1 = 5
}

func TestExpressionBodiedMembers(t *testing.T) {
	source := `
public class Pricing
{
    private readonly decimal _rate;

    public decimal Rate => _rate;

    public decimal Total(int units) => units * _rate;
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	c := classes[0]

	require.Len(t, c.Properties, 1)
	assert.Equal(t, "Rate", c.Properties[0].Name)

	require.Len(t, c.Methods, 1)
	assert.Equal(t, "Total", c.Methods[0].Name)
	assert.Equal(t, 1, c.Methods[0].ParameterCount)
}

func TestNestedClassMembersStayWithInner(t *testing.T) {
	source := `
public class Outer
{
    public void OuterMethod() { }

    public class Inner
    {
        public void InnerMethod() { }
    }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 2)

	byName := map[string][]types.MethodModel{}
	for _, c := range classes {
		byName[c.Name] = c.Methods
	}
	require.Len(t, byName["Outer"], 1)
	assert.Equal(t, "OuterMethod", byName["Outer"][0].Name)
	require.Len(t, byName["Inner"], 1)
	assert.Equal(t, "InnerMethod", byName["Inner"][0].Name)
}

func TestGenericTypesAndParameters(t *testing.T) {
	source := `
public class AppointmentService
{
    private readonly ILogger<AppointmentService> _logger;

    public AppointmentService(ILogger<AppointmentService> logger, IDictionary<string, int> limits)
    {
        _logger = logger;
    }

    public List<Appointment> FindAll(Dictionary<string, List<int>> filters, int page)
    {
        return null;
    }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	c := classes[0]

	assert.Equal(t, []string{"ILogger<AppointmentService>", "IDictionary<string, int>"}, c.CtorParamTypes)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "FindAll", c.Methods[0].Name)
	assert.Equal(t, 2, c.Methods[0].ParameterCount)
}

func TestPocoHasOnlyProperties(t *testing.T) {
	source := `
public class Patient
{
    public int Id { get; set; }
    public string Name { get; set; }
}
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	assert.Empty(t, classes[0].Methods)
	assert.Len(t, classes[0].Properties, 2)
}

func TestUsingAliasAndStatic(t *testing.T) {
	source := `
using Db = Clinic.Data.Access;
using static System.Math;

public class Calc { }
`
	classes := extract(t, source)
	require.Len(t, classes, 1)
	assert.Equal(t, []string{"Clinic.Data.Access", "System.Math"}, classes[0].Imports)
}
